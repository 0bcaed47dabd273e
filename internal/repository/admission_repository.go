package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvitengg/admissions-backend/internal/model"
)

var (
	ErrDuplicateAdmissionID = errors.New("admission with this ID already exists")
	ErrAdmissionNotFound    = errors.New("admission not found")
)

// allocateSerialSQL atomically advances the per-prefix serial counter.
// On first touch the counter row is seeded from the greatest serial already
// present under the prefix, so records created before the counter existed
// keep their place in the sequence. The upsert takes a row lock, which
// serializes concurrent allocations within one prefix.
const allocateSerialSQL = `
	INSERT INTO admission_serials (prefix, last_serial)
	VALUES ($1, (
		SELECT COALESCE(MAX(CAST(RIGHT(admission_id, $2::int) AS INTEGER)), 0) + 1
		FROM admissions
		WHERE admission_id LIKE $1 || '%'
		  AND LENGTH(admission_id) = LENGTH($1) + $2::int
	))
	ON CONFLICT (prefix) DO UPDATE SET last_serial = admission_serials.last_serial + 1
	RETURNING last_serial`

const admissionColumns = `id, admission_id, student_name, dob, father_name, mother_name,
	mobile_number, parent_mobile_number, email, permanent_address,
	previous_college, previous_combination, category, sub_caste,
	admission_through, cet_number, cet_rank, allotted_branch_kea,
	seat_allotted, allotted_branch_management,
	photo_url, marks_card_url, aadhaar_front_url, aadhaar_back_url,
	caste_income_url, submitted_at`

// AdmissionRepository handles admission record persistence and the
// per-prefix serial allocation that backs admission IDs.
type AdmissionRepository struct {
	pool *pgxpool.Pool
}

// NewAdmissionRepository creates a new AdmissionRepository.
func NewAdmissionRepository(pool *pgxpool.Pool) *AdmissionRepository {
	return &AdmissionRepository{pool: pool}
}

// CreateWithAllocation allocates the next serial under prefix and inserts the
// record in the same transaction. On success a.AdmissionID and a.SubmittedAt
// are populated. The unique index on admission_id backstops the counter: a
// collision surfaces as ErrDuplicateAdmissionID and nothing is committed.
func (r *AdmissionRepository) CreateWithAllocation(ctx context.Context, prefix string, a *model.Admission) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var serial int
	if err := tx.QueryRow(ctx, allocateSerialSQL, prefix, model.SerialWidth).Scan(&serial); err != nil {
		return fmt.Errorf("allocate serial: %w", err)
	}

	admissionID, err := model.FormatAdmissionID(prefix, serial)
	if err != nil {
		return err // ErrSerialExhausted past 999; the counter advance rolls back
	}
	a.AdmissionID = admissionID

	err = tx.QueryRow(ctx,
		`INSERT INTO admissions (admission_id, student_name, dob, father_name, mother_name,
			mobile_number, parent_mobile_number, email, permanent_address,
			previous_college, previous_combination, category, sub_caste,
			admission_through, cet_number, cet_rank, allotted_branch_kea,
			seat_allotted, allotted_branch_management,
			photo_url, marks_card_url, aadhaar_front_url, aadhaar_back_url, caste_income_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		 RETURNING id, submitted_at`,
		a.AdmissionID, a.StudentName, a.DOB, a.FatherName, a.MotherName,
		a.MobileNumber, a.ParentMobileNumber, a.Email, a.PermanentAddress,
		a.PreviousCollege, a.PreviousCombination, a.Category, a.SubCaste,
		a.AdmissionThrough, a.CETNumber, a.CETRank, a.AllottedBranchKEA,
		a.SeatAllotted, a.AllottedBranchManagement,
		a.PhotoURL, a.MarksCardURL, a.AadhaarFrontURL, a.AadhaarBackURL, a.CasteIncomeURL,
	).Scan(&a.ID, &a.SubmittedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateAdmissionID
		}
		return fmt.Errorf("insert admission: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByAdmissionID retrieves a record by exact admission-ID match.
func (r *AdmissionRepository) GetByAdmissionID(ctx context.Context, admissionID string) (*model.Admission, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+admissionColumns+` FROM admissions WHERE admission_id = $1`, admissionID)

	a, err := scanAdmission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdmissionNotFound
		}
		return nil, err
	}
	return a, nil
}

// AdmissionFilter narrows register listings.
type AdmissionFilter struct {
	Branch  string
	Channel model.AdmissionChannel
}

// ListPaginated retrieves admissions newest-first with optional filters.
func (r *AdmissionRepository) ListPaginated(ctx context.Context, filter AdmissionFilter, limit, offset int) ([]model.Admission, int, error) {
	where := ``
	var args []interface{}
	argIdx := 1

	if filter.Branch != "" {
		where += ` AND (allotted_branch_kea = $` + strconv.Itoa(argIdx) +
			` OR allotted_branch_management = $` + strconv.Itoa(argIdx) + `)`
		args = append(args, filter.Branch)
		argIdx++
	}
	if filter.Channel != "" {
		where += ` AND admission_through = $` + strconv.Itoa(argIdx)
		args = append(args, filter.Channel)
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM admissions WHERE TRUE`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + admissionColumns + ` FROM admissions WHERE TRUE` + where +
		` ORDER BY submitted_at DESC, id DESC LIMIT $` + strconv.Itoa(argIdx) +
		` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var admissions []model.Admission
	for rows.Next() {
		a, err := scanAdmission(rows)
		if err != nil {
			return nil, 0, err
		}
		admissions = append(admissions, *a)
	}
	return admissions, total, rows.Err()
}

// ListAll retrieves every record ordered by admission ID, for exports.
func (r *AdmissionRepository) ListAll(ctx context.Context) ([]model.Admission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+admissionColumns+` FROM admissions ORDER BY admission_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admissions []model.Admission
	for rows.Next() {
		a, err := scanAdmission(rows)
		if err != nil {
			return nil, err
		}
		admissions = append(admissions, *a)
	}
	return admissions, rows.Err()
}

func scanAdmission(row pgx.Row) (*model.Admission, error) {
	a := &model.Admission{}
	err := row.Scan(
		&a.ID, &a.AdmissionID, &a.StudentName, &a.DOB, &a.FatherName, &a.MotherName,
		&a.MobileNumber, &a.ParentMobileNumber, &a.Email, &a.PermanentAddress,
		&a.PreviousCollege, &a.PreviousCombination, &a.Category, &a.SubCaste,
		&a.AdmissionThrough, &a.CETNumber, &a.CETRank, &a.AllottedBranchKEA,
		&a.SeatAllotted, &a.AllottedBranchManagement,
		&a.PhotoURL, &a.MarksCardURL, &a.AadhaarFrontURL, &a.AadhaarBackURL,
		&a.CasteIncomeURL, &a.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}
