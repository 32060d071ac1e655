package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bachecalabs/bacheca/internal/model"
)

var ErrVerificationNotFound = errors.New("verification request not found")

type VerificationFilter struct {
	Search   string
	Status   model.VerificationStatus
	Method   model.VerificationMethod
	DateFrom *time.Time
	DateTo   *time.Time

	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

type VerificationStats struct {
	Total               int                              `json:"total"`
	ByStatus            map[model.VerificationStatus]int `json:"byStatus"`
	ByMethod            map[model.VerificationMethod]int `json:"byMethod"`
	SubmittedLast7Days  int                              `json:"submittedLast7Days"`
	SubmittedLast30Days int                              `json:"submittedLast30Days"`
}

type VerificationRepository interface {
	Create(req *model.VerificationRequest, files []*model.VerificationFile) error
	ByID(id int64) (*model.VerificationRequest, error)
	ByIDWithOwner(id int64) (*model.VerificationWithOwner, error)
	ListByUser(userID string) ([]*model.VerificationRequest, error)
	List(filter VerificationFilter) ([]*model.VerificationWithOwner, int, error)
	Stats(now time.Time) (*VerificationStats, error)
	Approve(id int64, reviewerID string, now time.Time) error
	Reject(id int64, reviewerID string, code model.VerificationRejectionCode, note *string, now time.Time) error
}

type verificationRepository struct {
	db *sqlx.DB
}

func NewVerificationRepository(db *sqlx.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

// Create inserts the request and its evidence files in one transaction.
func (r *verificationRepository) Create(req *model.VerificationRequest, files []*model.VerificationFile) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO verification_requests (user_id, method, status, submitted_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`

	err = tx.QueryRow(query, req.UserID, req.Method, req.Status, req.SubmittedAt).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("failed to insert verification request: %w", err)
	}

	fileQuery := `INSERT INTO verification_files (request_id, storage_key, role, created_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`

	now := time.Now()
	for i, f := range files {
		f.RequestID = req.ID
		f.CreatedAt = now

		err = tx.QueryRow(fileQuery, f.RequestID, f.StorageKey, f.Role, f.CreatedAt).Scan(&f.ID)
		if err != nil {
			return fmt.Errorf("failed to insert verification file %d: %w", i, err)
		}
	}
	req.Files = files

	return tx.Commit()
}

func (r *verificationRepository) ByID(id int64) (*model.VerificationRequest, error) {
	req := &model.VerificationRequest{}

	err := r.db.Get(req, `SELECT * FROM verification_requests WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrVerificationNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.db.Select(&req.Files, `SELECT * FROM verification_files WHERE request_id = $1 ORDER BY id ASC`, id)
	if err != nil {
		return nil, err
	}

	return req, nil
}

func (r *verificationRepository) ByIDWithOwner(id int64) (*model.VerificationWithOwner, error) {
	req := &model.VerificationWithOwner{}
	query := `SELECT v.*, u.name AS owner_name, u.email AS owner_email
	          FROM verification_requests v JOIN users u ON u.id = v.user_id
	          WHERE v.id = $1`

	err := r.db.Get(req, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrVerificationNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.db.Select(&req.Files, `SELECT * FROM verification_files WHERE request_id = $1 ORDER BY id ASC`, id)
	if err != nil {
		return nil, err
	}

	return req, nil
}

// ListByUser returns the user's full request history, newest first.
func (r *verificationRepository) ListByUser(userID string) ([]*model.VerificationRequest, error) {
	var reqs []*model.VerificationRequest

	err := r.db.Select(&reqs, `SELECT * FROM verification_requests WHERE user_id = $1 ORDER BY submitted_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}

	return reqs, nil
}

func (r *verificationRepository) List(f VerificationFilter) ([]*model.VerificationWithOwner, int, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "v.status = "+arg(string(f.Status)))
	}
	if f.Method != "" {
		where = append(where, "v.method = "+arg(string(f.Method)))
	}
	if f.DateFrom != nil {
		where = append(where, "v.submitted_at >= "+arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		where = append(where, "v.submitted_at <= "+arg(*f.DateTo))
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		where = append(where, fmt.Sprintf("(LOWER(u.name) LIKE %s OR LOWER(u.email) LIKE %s)", arg(pattern), arg(pattern)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM verification_requests v JOIN users u ON u.id = v.user_id `+whereClause, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	orderBy := "v.submitted_at"
	if f.SortBy == "reviewedAt" {
		orderBy = "v.reviewed_at"
	}
	direction := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		direction = "ASC"
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT v.*, u.name AS owner_name, u.email AS owner_email
	          FROM verification_requests v JOIN users u ON u.id = v.user_id
	          %s ORDER BY %s %s LIMIT %s OFFSET %s`,
		whereClause, orderBy, direction, arg(limit), arg(offset))

	var reqs []*model.VerificationWithOwner
	err = r.db.Select(&reqs, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

func (r *verificationRepository) Stats(now time.Time) (*VerificationStats, error) {
	stats := &VerificationStats{
		ByStatus: make(map[model.VerificationStatus]int),
		ByMethod: make(map[model.VerificationMethod]int),
	}

	type bucket struct {
		Key   string `db:"key"`
		Count int    `db:"count"`
	}

	var statusCounts []bucket
	err := r.db.Select(&statusCounts, `SELECT status AS key, COUNT(*) AS count FROM verification_requests GROUP BY 1`)
	if err != nil {
		return nil, err
	}
	for _, b := range statusCounts {
		stats.ByStatus[model.VerificationStatus(b.Key)] = b.Count
		stats.Total += b.Count
	}

	var methodCounts []bucket
	err = r.db.Select(&methodCounts, `SELECT method AS key, COUNT(*) AS count FROM verification_requests GROUP BY 1`)
	if err != nil {
		return nil, err
	}
	for _, b := range methodCounts {
		stats.ByMethod[model.VerificationMethod(b.Key)] = b.Count
	}

	err = r.db.QueryRow(`SELECT COUNT(*) FROM verification_requests WHERE submitted_at >= $1`, now.AddDate(0, 0, -7)).Scan(&stats.SubmittedLast7Days)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(`SELECT COUNT(*) FROM verification_requests WHERE submitted_at >= $1`, now.AddDate(0, 0, -30)).Scan(&stats.SubmittedLast30Days)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Approve marks the request APPROVED and flips the owner's verified flag in
// the same transaction, so a request can never read APPROVED while its user
// reads unverified.
func (r *verificationRepository) Approve(id int64, reviewerID string, now time.Time) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID string
	query := `UPDATE verification_requests
	          SET status = $1, reviewed_at = $2, reviewed_by = $3, rejection_code = NULL, rejection_note = NULL
	          WHERE id = $4
	          RETURNING user_id`

	err = tx.QueryRow(query, model.VerificationApproved, now, reviewerID, id).Scan(&userID)
	if err == sql.ErrNoRows {
		return ErrVerificationNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to approve verification request: %w", err)
	}

	_, err = tx.Exec(`UPDATE users SET verified = $1, verified_at = $2 WHERE id = $3`, true, now, userID)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	return tx.Commit()
}

func (r *verificationRepository) Reject(id int64, reviewerID string, code model.VerificationRejectionCode, note *string, now time.Time) error {
	query := `UPDATE verification_requests
	          SET status = $1, reviewed_at = $2, reviewed_by = $3, rejection_code = $4, rejection_note = $5
	          WHERE id = $6`

	result, err := r.db.Exec(query, model.VerificationRejected, now, reviewerID, code, note, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrVerificationNotFound
	}

	return nil
}
