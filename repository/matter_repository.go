package repository

import (
	"context"
	"fmt"
	"time"

	"caseintake-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatterRepository handles database operations for matters
type MatterRepository struct {
	db *pgxpool.Pool
}

// NewMatterRepository creates a new matter repository
func NewMatterRepository(db *pgxpool.Pool) *MatterRepository {
	return &MatterRepository{db: db}
}

// Create creates a new matter
func (r *MatterRepository) Create(ctx context.Context, matter *models.Matter) error {
	query := `
		INSERT INTO matters (
			user_id, status, case_title, clio_matter_id,
			report_file_id, retainer_file_id, extraction
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		matter.UserID,
		matter.Status,
		matter.CaseTitle,
		matter.ClioMatterID,
		matter.ReportFileID,
		matter.RetainerFileID,
		matter.Extraction,
	).Scan(&matter.ID, &matter.CreatedAt, &matter.UpdatedAt)

	return err
}

// GetByID retrieves a matter by ID
func (r *MatterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Matter, error) {
	matter := &models.Matter{}
	query := `
		SELECT id, user_id, status, case_title, clio_matter_id,
			report_file_id, retainer_file_id, extraction,
			created_at, updated_at, processed_at
		FROM matters
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&matter.ID,
		&matter.UserID,
		&matter.Status,
		&matter.CaseTitle,
		&matter.ClioMatterID,
		&matter.ReportFileID,
		&matter.RetainerFileID,
		&matter.Extraction,
		&matter.CreatedAt,
		&matter.UpdatedAt,
		&matter.ProcessedAt,
	)

	if err != nil {
		return nil, err
	}

	return matter, nil
}

// Update updates a matter
func (r *MatterRepository) Update(ctx context.Context, matter *models.Matter) error {
	query := `
		UPDATE matters SET
			status = $2,
			case_title = $3,
			clio_matter_id = $4,
			report_file_id = $5,
			retainer_file_id = $6,
			extraction = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		matter.ID,
		matter.Status,
		matter.CaseTitle,
		matter.ClioMatterID,
		matter.ReportFileID,
		matter.RetainerFileID,
		matter.Extraction,
	).Scan(&matter.UpdatedAt)

	return err
}

// UpdateExtraction replaces only the stored extraction
func (r *MatterRepository) UpdateExtraction(ctx context.Context, id uuid.UUID, extraction *models.CaseExtraction) error {
	query := `
		UPDATE matters SET
			extraction = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, extraction)
	return err
}

// MarkProcessed stamps the matter as pushed downstream
func (r *MatterRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	query := `
		UPDATE matters SET
			status = $2,
			processed_at = $3,
			updated_at = $3
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.MatterStatusProcessed, now)
	return err
}

// ListByUserID retrieves all matters for a user
func (r *MatterRepository) ListByUserID(ctx context.Context, userID uuid.UUID, status *models.MatterStatus, limit, offset int) ([]*models.Matter, error) {
	query := `
		SELECT id, user_id, status, case_title, clio_matter_id,
			report_file_id, retainer_file_id, extraction,
			created_at, updated_at, processed_at
		FROM matters
		WHERE user_id = $1`

	args := []interface{}{userID}
	argIndex := 2

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matters []*models.Matter
	for rows.Next() {
		matter := &models.Matter{}
		err := rows.Scan(
			&matter.ID,
			&matter.UserID,
			&matter.Status,
			&matter.CaseTitle,
			&matter.ClioMatterID,
			&matter.ReportFileID,
			&matter.RetainerFileID,
			&matter.Extraction,
			&matter.CreatedAt,
			&matter.UpdatedAt,
			&matter.ProcessedAt,
		)
		if err != nil {
			return nil, err
		}
		matters = append(matters, matter)
	}

	return matters, rows.Err()
}

// Delete deletes a matter
func (r *MatterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM matters WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
