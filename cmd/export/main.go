package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vvitengg/admissions-backend/internal/config"
	"github.com/vvitengg/admissions-backend/internal/database"
	"github.com/vvitengg/admissions-backend/internal/logger"
	"github.com/vvitengg/admissions-backend/internal/repository"
	"github.com/vvitengg/admissions-backend/internal/service"
)

// Offline export of the admissions register, for office use when the
// dashboard is unreachable. Writes either an XLSX workbook or a PDF.
func main() {
	var (
		format  string
		outPath string
	)
	flag.StringVar(&format, "format", "xlsx", "Export format: xlsx or pdf")
	flag.StringVar(&outPath, "out", "", "Output file path (default admissions_register.<format>)")
	flag.Parse()

	if format != "xlsx" && format != "pdf" {
		fmt.Fprintf(os.Stderr, "Unknown format %q (want xlsx or pdf)\n", format)
		os.Exit(2)
	}
	if outPath == "" {
		outPath = "admissions_register." + format
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	admissionRepo := repository.NewAdmissionRepository(pool)
	slipService := service.NewSlipService(cfg.SlipFontPath)
	if format == "pdf" {
		if err := slipService.CheckFont(); err != nil {
			log.Fatal().Err(err).Msg("PDF export needs a TTF at SLIP_FONT_PATH")
		}
	}
	registerService := service.NewRegisterService(
		admissionRepo,
		service.NewExportService(),
		slipService,
	)

	out, err := os.Create(outPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", outPath).Msg("Failed to create output file")
	}
	defer out.Close()

	switch format {
	case "xlsx":
		if err := registerService.ExportXLSX(ctx, out); err != nil {
			log.Fatal().Err(err).Msg("XLSX export failed")
		}
	case "pdf":
		pdf, err := registerService.ExportPDF(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("PDF export failed")
		}
		if _, err := out.Write(pdf); err != nil {
			log.Fatal().Err(err).Msg("Failed to write PDF")
		}
	}

	fmt.Printf("Wrote %s\n", outPath)
}
