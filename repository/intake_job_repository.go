package repository

import (
	"context"
	"time"

	"caseintake-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IntakeJobRepository handles database operations for intake jobs
type IntakeJobRepository struct {
	db *pgxpool.Pool
}

// NewIntakeJobRepository creates a new intake job repository
func NewIntakeJobRepository(db *pgxpool.Pool) *IntakeJobRepository {
	return &IntakeJobRepository{db: db}
}

// Create creates a new intake job
func (r *IntakeJobRepository) Create(ctx context.Context, job *models.IntakeJob) error {
	query := `
		INSERT INTO intake_jobs (
			matter_id, status, current_step, steps, error_message
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		job.MatterID,
		job.Status,
		job.CurrentStep,
		job.Steps,
		job.ErrorMessage,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	return err
}

// GetByID retrieves an intake job by ID
func (r *IntakeJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.IntakeJob, error) {
	job := &models.IntakeJob{}
	query := `
		SELECT id, matter_id, status, current_step, steps, error_message,
			created_at, updated_at, completed_at
		FROM intake_jobs
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.MatterID,
		&job.Status,
		&job.CurrentStep,
		&job.Steps,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	// Ensure Steps is never nil (safeguard in case Scan didn't handle NULL properly)
	if job.Steps == nil {
		job.Steps = make(models.IntakeSteps, 0)
	}

	return job, nil
}

// GetByMatterID retrieves the latest intake job for a matter
func (r *IntakeJobRepository) GetByMatterID(ctx context.Context, matterID uuid.UUID) (*models.IntakeJob, error) {
	job := &models.IntakeJob{}
	query := `
		SELECT id, matter_id, status, current_step, steps, error_message,
			created_at, updated_at, completed_at
		FROM intake_jobs
		WHERE matter_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.QueryRow(ctx, query, matterID).Scan(
		&job.ID,
		&job.MatterID,
		&job.Status,
		&job.CurrentStep,
		&job.Steps,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	// Ensure Steps is never nil (safeguard in case Scan didn't handle NULL properly)
	if job.Steps == nil {
		job.Steps = make(models.IntakeSteps, 0)
	}

	return job, nil
}

// UpdateStatus updates the status of an intake job
func (r *IntakeJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.IntakeJobStatus) error {
	query := `
		UPDATE intake_jobs SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// UpdateProgress updates the progress of an intake job
func (r *IntakeJobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.IntakeSteps) error {
	query := `
		UPDATE intake_jobs SET
			current_step = $2,
			steps = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, currentStep, steps)
	return err
}

// Complete marks an intake job as completed
func (r *IntakeJobRepository) Complete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	query := `
		UPDATE intake_jobs SET
			status = $2,
			completed_at = $3,
			updated_at = $3
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusCompleted, now)
	return err
}

// Fail marks an intake job as failed
func (r *IntakeJobRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE intake_jobs SET
			status = $2,
			error_message = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusFailed, errorMessage)
	return err
}
