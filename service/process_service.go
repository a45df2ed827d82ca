package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"caseintake-backend/clio"
	"caseintake-backend/models"
	"caseintake-backend/repository"
	"caseintake-backend/retainer"

	"github.com/google/uuid"
)

// ProcessService pushes a verified matter into the practice-management
// system. Two backends exist: a direct API client and an automation-platform
// webhook that runs the same pipeline remotely. With neither configured the
// pipeline runs in demo mode and records what it would have done.
type ProcessService struct {
	matterRepo *repository.MatterRepository
	jobRepo    *repository.IntakeJobRepository
	clioClient *clio.Client
	webhookURL string
	httpClient *http.Client
	now        func() time.Time
}

// ProcessServiceOption is a functional option for ProcessService
type ProcessServiceOption func(*ProcessService)

// ProcessWithMatterRepository sets the matter repository
func ProcessWithMatterRepository(repo *repository.MatterRepository) ProcessServiceOption {
	return func(s *ProcessService) {
		s.matterRepo = repo
	}
}

// ProcessWithIntakeJobRepository sets the intake job repository
func ProcessWithIntakeJobRepository(repo *repository.IntakeJobRepository) ProcessServiceOption {
	return func(s *ProcessService) {
		s.jobRepo = repo
	}
}

// ProcessWithClioClient sets the direct practice-management client
func ProcessWithClioClient(client *clio.Client) ProcessServiceOption {
	return func(s *ProcessService) {
		s.clioClient = client
	}
}

// ProcessWithWebhookURL sets the automation-platform webhook. When set it
// takes precedence over the direct client.
func ProcessWithWebhookURL(url string) ProcessServiceOption {
	return func(s *ProcessService) {
		s.webhookURL = url
	}
}

// ProcessWithClock overrides the clock, used by tests
func ProcessWithClock(now func() time.Time) ProcessServiceOption {
	return func(s *ProcessService) {
		s.now = now
	}
}

// NewProcessService creates a new process service
func NewProcessService(opts ...ProcessServiceOption) *ProcessService {
	s := &ProcessService{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrJobCreationFailed = errors.New("failed to create intake job")
	ErrJobNotFound       = errors.New("intake job not found")
	ErrNoClioMatter      = errors.New("matter has no practice-management id")
)

// Pipeline step names. The step list is fixed per backend so the UI can show
// progress before any step has run.
const (
	stepForwardWebhook = "Forward to Automation Pipeline"
	stepFetchFieldIDs  = "Fetch Custom Field IDs"
	stepUpdateFields   = "Update Custom Fields"
	stepStageVerified  = "Stage: Data Verified"
	stepStageReady     = "Stage: Retainer Ready"
	stepCalendarSOL    = "Calendar SOL Deadlines"
	stepAuditNote      = "Audit Note"
	stepStageSent      = "Stage: Retainer Sent"
	stepDemo           = "Demo Mode"
)

// StartProcessingRequest represents a request to start the intake pipeline
type StartProcessingRequest struct {
	MatterID uuid.UUID
}

// StartProcessingResult represents the result of creating an intake job
type StartProcessingResult struct {
	JobID uuid.UUID
}

// GetJobStatusRequest represents a request to get job status
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult represents the result of getting job status
type GetJobStatusResult struct {
	Job *models.IntakeJob
}

// StartProcessing validates the matter and creates an intake job, returning
// immediately. The actual pipeline runs in the background via ProcessMatter.
func (s *ProcessService) StartProcessing(ctx context.Context, req StartProcessingRequest) (*StartProcessingResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}
	if s.jobRepo == nil {
		return nil, errors.New("intake job repository not set")
	}

	matter, err := s.matterRepo.GetByID(ctx, req.MatterID)
	if err != nil {
		return nil, ErrMatterNotFound
	}

	if matter.Extraction == nil {
		return nil, ErrNoExtraction
	}
	if matter.Status != models.MatterStatusVerified {
		return nil, ErrMatterNotVerified
	}
	if s.clioClient != nil && s.webhookURL == "" && matter.ClioMatterID == nil {
		return nil, ErrNoClioMatter
	}

	job := &models.IntakeJob{
		ID:       uuid.New(),
		MatterID: req.MatterID,
		Status:   models.JobStatusPending,
		Steps:    s.initializeSteps(),
	}

	err = s.jobRepo.Create(ctx, job)
	if err != nil {
		return nil, ErrJobCreationFailed
	}

	return &StartProcessingResult{JobID: job.ID}, nil
}

// GetJobStatus retrieves the status of an intake job
func (s *ProcessService) GetJobStatus(ctx context.Context, req GetJobStatusRequest) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("intake job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetJobStatusResult{Job: job}, nil
}

// initializeSteps creates the pending step list for the configured backend
func (s *ProcessService) initializeSteps() models.IntakeSteps {
	var names []string
	switch {
	case s.webhookURL != "":
		names = []string{stepForwardWebhook}
	case s.clioClient != nil:
		names = []string{
			stepFetchFieldIDs,
			stepUpdateFields,
			stepStageVerified,
			stepStageReady,
			stepCalendarSOL,
			stepAuditNote,
			stepStageSent,
		}
	default:
		names = []string{stepDemo}
	}

	steps := make(models.IntakeSteps, 0, len(names))
	for _, name := range names {
		steps = append(steps, models.IntakeStep{Name: name, Status: "pending"})
	}
	return steps
}

// ProcessMatter runs the intake pipeline for a job. It is designed to run in
// a goroutine; failures in individual push steps are recorded on the job and
// the pipeline continues, matching how a paralegal would treat a partly
// failed push: fix the one thing, not redo everything.
func (s *ProcessService) ProcessMatter(ctx context.Context, jobID uuid.UUID) error {
	if s.jobRepo == nil {
		return errors.New("intake job repository not set")
	}
	if s.matterRepo == nil {
		return errors.New("matter repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load intake job: %w", err)
	}

	matter, err := s.matterRepo.GetByID(ctx, job.MatterID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load matter: "+err.Error())
		return err
	}

	if matter.Extraction == nil {
		s.markJobFailed(ctx, jobID, "matter has no extraction")
		return ErrNoExtraction
	}

	err = s.jobRepo.UpdateStatus(ctx, jobID, models.JobStatusInProgress)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	fields, err := retainer.Derive(matter.Extraction, s.now())
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to derive fields: "+err.Error())
		return err
	}

	switch {
	case s.webhookURL != "":
		err = s.runWebhookPipeline(ctx, jobID, matter, fields)
	case s.clioClient != nil:
		err = s.runClioPipeline(ctx, jobID, matter, fields)
	default:
		err = s.runDemoPipeline(ctx, jobID, fields)
	}
	if err != nil {
		return err
	}

	err = s.matterRepo.MarkProcessed(ctx, matter.ID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to mark matter processed: "+err.Error())
		return err
	}

	err = s.jobRepo.Complete(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

// webhookPayload builds the body forwarded to the automation pipeline.
// A matter with no practice-management id omits the key entirely so the
// receiver can tell "no matter" from an empty id.
func webhookPayload(matter *models.Matter, fields *retainer.DerivedFields) map[string]interface{} {
	payload := map[string]interface{}{
		"extraction": matter.Extraction,
		"sol_8yr":    fields.SOLExtendedISO,
		"sol_3yr":    fields.SOLStandardISO,
	}
	if matter.ClioMatterID != nil {
		payload["matter_id"] = *matter.ClioMatterID
	}
	return payload
}

// runWebhookPipeline forwards the extraction and SOL dates to the webhook
func (s *ProcessService) runWebhookPipeline(ctx context.Context, jobID uuid.UUID, matter *models.Matter, fields *retainer.DerivedFields) error {
	s.updateStep(ctx, jobID, stepForwardWebhook, "in_progress", "")

	jsonData, err := json.Marshal(webhookPayload(matter, fields))
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to marshal webhook payload: "+err.Error())
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to create webhook request: "+err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.markJobFailed(ctx, jobID, "webhook request failed: "+err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		detail := fmt.Sprintf("webhook error: %d - %s", resp.StatusCode, string(bodyBytes))
		s.markJobFailed(ctx, jobID, detail)
		return errors.New(detail)
	}

	s.updateStep(ctx, jobID, stepForwardWebhook, "completed", "Data sent to automation pipeline")
	return nil
}

// runClioPipeline pushes the matter directly: custom fields, stage changes,
// SOL calendar entries, and an audit note. Every step after field derivation
// is best-effort.
func (s *ProcessService) runClioPipeline(ctx context.Context, jobID uuid.UUID, matter *models.Matter, fields *retainer.DerivedFields) error {
	matterID := *matter.ClioMatterID

	s.updateStep(ctx, jobID, stepFetchFieldIDs, "in_progress", "")
	fieldIDs, err := s.clioClient.CustomFieldIDs(ctx)
	if err != nil {
		s.updateStep(ctx, jobID, stepFetchFieldIDs, "error", err.Error())
		// Without field ids the field update cannot run either
		s.updateStep(ctx, jobID, stepUpdateFields, "error", "skipped: no custom field ids")
	} else {
		s.updateStep(ctx, jobID, stepFetchFieldIDs, "completed", fmt.Sprintf("Found %d custom fields", len(fieldIDs)))

		s.updateStep(ctx, jobID, stepUpdateFields, "in_progress", "")
		values := retainer.FieldMap(matter.Extraction, fields)
		updated, err := s.clioClient.UpdateMatterFields(ctx, matterID, fieldIDs, values)
		if err != nil {
			s.updateStep(ctx, jobID, stepUpdateFields, "error", err.Error())
		} else {
			s.updateStep(ctx, jobID, stepUpdateFields, "completed", fmt.Sprintf("%d fields updated", updated))
		}
	}

	s.updateStep(ctx, jobID, stepStageVerified, "in_progress", "")
	if err := s.clioClient.ChangeStage(ctx, matterID, "Data Verified"); err != nil {
		s.updateStep(ctx, jobID, stepStageVerified, "error", err.Error())
	} else {
		s.updateStep(ctx, jobID, stepStageVerified, "completed", "")
	}

	s.updateStep(ctx, jobID, stepStageReady, "in_progress", "")
	if err := s.clioClient.ChangeStage(ctx, matterID, "Retainer Ready"); err != nil {
		s.updateStep(ctx, jobID, stepStageReady, "error", err.Error())
	} else {
		s.updateStep(ctx, jobID, stepStageReady, "completed", "Triggers document automation workflow")
	}

	s.calendarDeadlines(ctx, jobID, matterID, fields)

	s.updateStep(ctx, jobID, stepAuditNote, "in_progress", "")
	note := s.auditNote(fields)
	if err := s.clioClient.CreateNote(ctx, matterID, note); err != nil {
		s.updateStep(ctx, jobID, stepAuditNote, "error", err.Error())
	} else {
		s.updateStep(ctx, jobID, stepAuditNote, "completed", "")
	}

	s.updateStep(ctx, jobID, stepStageSent, "in_progress", "")
	if err := s.clioClient.ChangeStage(ctx, matterID, "Retainer Sent"); err != nil {
		s.updateStep(ctx, jobID, stepStageSent, "error", err.Error())
	} else {
		s.updateStep(ctx, jobID, stepStageSent, "completed", "")
	}

	return nil
}

// calendarDeadlines creates calendar entries for both SOL dates. The matter
// tracks the extended deadline the client requested and the standard
// jurisdiction one; both get calendared so neither can be missed.
func (s *ProcessService) calendarDeadlines(ctx context.Context, jobID uuid.UUID, matterID string, fields *retainer.DerivedFields) {
	s.updateStep(ctx, jobID, stepCalendarSOL, "in_progress", "")

	accidentDate := retainer.PlaceholderAccidentDate
	if fields.AccidentDateISO != nil {
		accidentDate = *fields.AccidentDateISO
	}

	var detail string
	if fields.SOLExtendedISO != nil {
		err := s.clioClient.CreateCalendarEntry(ctx, matterID,
			fmt.Sprintf("SOL DEADLINE (8yr) — %s v. %s", fields.ClientFullName, fields.DefendantName),
			fmt.Sprintf("Statute of Limitations expires. Accident date: %s. NOTE: Client requested 8-year SOL. Standard NY PI SOL is 3 years. Verify with supervising attorney.", accidentDate),
			*fields.SOLExtendedISO,
		)
		if err != nil {
			s.updateStep(ctx, jobID, stepCalendarSOL, "error", err.Error())
			return
		}
		detail = fmt.Sprintf("8yr: %s", *fields.SOLExtendedISO)
	}
	if fields.SOLStandardISO != nil {
		err := s.clioClient.CreateCalendarEntry(ctx, matterID,
			fmt.Sprintf("SOL DEADLINE (3yr standard) — %s v. %s", fields.ClientFullName, fields.DefendantName),
			fmt.Sprintf("Standard 3-year NY PI SOL. Accident date: %s. 8-year SOL also calendared per client request.", accidentDate),
			*fields.SOLStandardISO,
		)
		if err != nil {
			s.updateStep(ctx, jobID, stepCalendarSOL, "error", err.Error())
			return
		}
		if detail != "" {
			detail += ", "
		}
		detail += fmt.Sprintf("3yr: %s", *fields.SOLStandardISO)
	}

	if detail == "" {
		detail = "no SOL dates available"
	}
	s.updateStep(ctx, jobID, stepCalendarSOL, "completed", detail)
}

// auditNote builds the audit-trail note recorded on the matter
func (s *ProcessService) auditNote(fields *retainer.DerivedFields) string {
	sol8 := "n/a"
	if fields.SOLExtendedISO != nil {
		sol8 = *fields.SOLExtendedISO
	}
	sol3 := "n/a"
	if fields.SOLStandardISO != nil {
		sol3 = *fields.SOLStandardISO
	}
	accidentDate := retainer.PlaceholderAccidentDate
	if fields.AccidentDateISO != nil {
		accidentDate = *fields.AccidentDateISO
	}

	timestamp := s.now().UTC().Format("2006-01-02 15:04")
	return fmt.Sprintf(
		"[AUTOMATED] Intake pipeline completed at %s UTC. Custom fields updated, stage changed to Retainer Ready (triggers doc automation), SOL entries (8yr: %s, 3yr: %s) calendared. Client: %s, Defendant: %s, Accident: %s at %s.",
		timestamp, sol8, sol3, fields.ClientFullName, fields.DefendantName, accidentDate, fields.Location,
	)
}

// runDemoPipeline records what the pipeline would have pushed, for
// installations with no integration configured
func (s *ProcessService) runDemoPipeline(ctx context.Context, jobID uuid.UUID, fields *retainer.DerivedFields) error {
	s.updateStep(ctx, jobID, stepDemo, "in_progress", "")
	s.updateStep(ctx, jobID, stepDemo, "completed",
		fmt.Sprintf("No integration configured. Would push: client %s, defendant %s, SOL %s",
			fields.ClientFullName, fields.DefendantName, fields.SOLExtendedLong))
	return nil
}

// updateStep updates one step's status on the job. Step bookkeeping failures
// are logged, not fatal; the pipeline itself matters more than its progress
// display.
func (s *ProcessService) updateStep(ctx context.Context, jobID uuid.UUID, stepName, status, detail string) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		log.Printf("Warning: failed to load job %s for step update: %v", jobID, err)
		return
	}

	steps := job.Steps
	var currentStep string
	if job.CurrentStep != nil {
		currentStep = *job.CurrentStep
	}

	for i := range steps {
		if steps[i].Name == stepName {
			steps[i].Status = status
			if detail != "" {
				steps[i].Detail = detail
			}
			if status == "in_progress" {
				currentStep = stepName
			}
			break
		}
	}

	if err := s.jobRepo.UpdateProgress(ctx, jobID, currentStep, steps); err != nil {
		log.Printf("Warning: failed to update job %s progress: %v", jobID, err)
	}
}

// markJobFailed marks a job as failed with an error message
func (s *ProcessService) markJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) {
	if err := s.jobRepo.Fail(ctx, jobID, errorMessage); err != nil {
		log.Printf("Warning: failed to mark job %s failed: %v", jobID, err)
	}
}
