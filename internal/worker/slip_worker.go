package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vvitengg/admissions-backend/internal/config"
	"github.com/vvitengg/admissions-backend/internal/model"
	"github.com/vvitengg/admissions-backend/internal/repository"
	"github.com/vvitengg/admissions-backend/internal/service"
)

const (
	slipPollTimeout   = 1 * time.Second
	slipRenderTimeout = 30 * time.Second
)

// SlipWorker pre-renders admission slips after a submission commits so the
// slip endpoint can serve them without rendering inline. A failed render is
// logged and skipped; the endpoint falls back to rendering on demand.
type SlipWorker struct {
	rdb   *redis.Client
	repo  *repository.AdmissionRepository
	slips *service.SlipService
	dir   string
	log   zerolog.Logger
}

func NewSlipWorker(rdb *redis.Client, repo *repository.AdmissionRepository, slips *service.SlipService, uploadDir string, log zerolog.Logger) *SlipWorker {
	return &SlipWorker{
		rdb:   rdb,
		repo:  repo,
		slips: slips,
		dir:   filepath.Join(uploadDir, "slips"),
		log:   log.With().Str("component", "slip_worker").Logger(),
	}
}

func (w *SlipWorker) Start(ctx context.Context) {
	w.log.Info().Msg("SlipWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("SlipWorker stopped")
			return
		default:
			item, err := w.rdb.BLPop(ctx, slipPollTimeout, config.QueueKey.SlipQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var ev model.AdmissionEvent
			if err := json.Unmarshal([]byte(item[1]), &ev); err != nil {
				w.log.Error().Err(err).Msg("Malformed slip job")
				continue
			}

			w.render(ev.AdmissionID)
		}
	}
}

func (w *SlipWorker) render(admissionID string) {
	renderCtx, cancel := context.WithTimeout(context.Background(), slipRenderTimeout)
	defer cancel()

	admission, err := w.repo.GetByAdmissionID(renderCtx, admissionID)
	if err != nil {
		w.log.Error().Err(err).Str("admission_id", admissionID).Msg("Load admission for slip")
		return
	}

	pdf, err := w.slips.RenderSlip(admission)
	if err != nil {
		w.log.Error().Err(err).Str("admission_id", admissionID).Msg("Slip render failed")
		return
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		w.log.Error().Err(err).Msg("Create slip dir")
		return
	}

	dest := filepath.Join(w.dir, admissionID+".pdf")
	if err := os.WriteFile(dest, pdf, 0o644); err != nil {
		w.log.Error().Err(err).Str("admission_id", admissionID).Msg("Write slip file")
		return
	}

	w.log.Info().Str("admission_id", admissionID).Str("path", dest).Msg("Slip pre-rendered")
}
