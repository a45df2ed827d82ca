package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"caseintake-backend/models"
	"caseintake-backend/repository"
	"caseintake-backend/storage"

	"github.com/google/uuid"
)

// MatterService handles business logic for matters
type MatterService struct {
	matterRepo *repository.MatterRepository
	fileRepo   *repository.FileRepository
	storage    storage.Storage
	extractor  Extractor
}

// MatterServiceOption is a functional option for MatterService
type MatterServiceOption func(*MatterService)

// WithMatterRepository sets the matter repository
func WithMatterRepository(repo *repository.MatterRepository) MatterServiceOption {
	return func(s *MatterService) {
		s.matterRepo = repo
	}
}

// WithFileRepository sets the file repository
func WithFileRepository(repo *repository.FileRepository) MatterServiceOption {
	return func(s *MatterService) {
		s.fileRepo = repo
	}
}

// WithStorage sets the file storage backend
func WithStorage(store storage.Storage) MatterServiceOption {
	return func(s *MatterService) {
		s.storage = store
	}
}

// WithExtractor sets the extraction backend
func WithExtractor(extractor Extractor) MatterServiceOption {
	return func(s *MatterService) {
		s.extractor = extractor
	}
}

// NewMatterService creates a new matter service
func NewMatterService(opts ...MatterServiceOption) *MatterService {
	s := &MatterService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrMatterNotFound    = errors.New("matter not found")
	ErrMissingCaseTitle  = errors.New("matter missing case title")
	ErrNoReportUploaded  = errors.New("matter has no uploaded report")
	ErrNoExtraction      = errors.New("matter has no extraction")
	ErrMatterNotEditable = errors.New("matter extraction is no longer editable")
	ErrUnknownFieldPath  = errors.New("unknown extraction field path")
)

// CreateMatterRequest represents a request to create a matter
type CreateMatterRequest struct {
	UserID       uuid.UUID
	CaseTitle    string
	ClioMatterID *string
}

// CreateMatterResult represents the result of creating a matter
type CreateMatterResult struct {
	Matter *models.Matter
}

// CreateMatter creates a new matter. The case title is required because the
// extraction step uses it to tell the client from the adverse party.
func (s *MatterService) CreateMatter(ctx context.Context, req CreateMatterRequest) (*CreateMatterResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}

	if req.CaseTitle == "" {
		return nil, ErrMissingCaseTitle
	}

	matter := &models.Matter{
		UserID:       req.UserID,
		Status:       models.MatterStatusNew,
		CaseTitle:    req.CaseTitle,
		ClioMatterID: req.ClioMatterID,
	}

	err := s.matterRepo.Create(ctx, matter)
	if err != nil {
		return nil, err
	}

	return &CreateMatterResult{Matter: matter}, nil
}

// GetMatterRequest represents a request to get a matter
type GetMatterRequest struct {
	ID uuid.UUID
}

// GetMatterResult represents the result of getting a matter
type GetMatterResult struct {
	Matter *models.Matter
}

// GetMatter retrieves a matter by ID
func (s *MatterService) GetMatter(ctx context.Context, req GetMatterRequest) (*GetMatterResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}

	matter, err := s.matterRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, ErrMatterNotFound
	}

	return &GetMatterResult{Matter: matter}, nil
}

// UpdateMatterRequest represents a request to update a matter
type UpdateMatterRequest struct {
	Matter *models.Matter
}

// UpdateMatterResult represents the result of updating a matter
type UpdateMatterResult struct {
	Matter *models.Matter
}

// UpdateMatter updates a matter
func (s *MatterService) UpdateMatter(ctx context.Context, req UpdateMatterRequest) (*UpdateMatterResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}

	err := s.matterRepo.Update(ctx, req.Matter)
	if err != nil {
		return nil, err
	}

	return &UpdateMatterResult{Matter: req.Matter}, nil
}

// ListMattersRequest represents a request to list matters
type ListMattersRequest struct {
	UserID uuid.UUID
	Status *models.MatterStatus
	Limit  int
	Offset int
}

// ListMattersResult represents the result of listing matters
type ListMattersResult struct {
	Matters []*models.Matter
}

// ListMatters lists matters for a user
func (s *MatterService) ListMatters(ctx context.Context, req ListMattersRequest) (*ListMattersResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}

	matters, err := s.matterRepo.ListByUserID(ctx, req.UserID, req.Status, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &ListMattersResult{Matters: matters}, nil
}

// ExtractMatterRequest represents a request to run extraction on a matter
type ExtractMatterRequest struct {
	MatterID uuid.UUID
}

// ExtractMatterResult represents the result of running extraction
type ExtractMatterResult struct {
	Matter *models.Matter
}

// ExtractMatter loads the matter's uploaded report, runs the extraction
// backend on it, and stores the result. The matter moves to "extracted";
// reviewer corrections happen from there.
func (s *MatterService) ExtractMatter(ctx context.Context, req ExtractMatterRequest) (*ExtractMatterResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}
	if s.fileRepo == nil {
		return nil, errors.New("file repository not set")
	}
	if s.storage == nil {
		return nil, errors.New("storage not set")
	}
	if s.extractor == nil {
		return nil, ErrNoExtractorConfigured
	}

	matter, err := s.matterRepo.GetByID(ctx, req.MatterID)
	if err != nil {
		return nil, ErrMatterNotFound
	}

	if matter.ReportFileID == nil {
		return nil, ErrNoReportUploaded
	}

	file, err := s.fileRepo.GetByID(ctx, *matter.ReportFileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load report file record: %w", err)
	}

	reader, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download report: %w", err)
	}
	defer reader.Close()

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	extraction, err := s.extractor.ExtractReport(ctx, pdf, file.Filename, matter.CaseTitle)
	if err != nil {
		return nil, err
	}

	matter.Extraction = extraction
	matter.Status = models.MatterStatusExtracted

	err = s.matterRepo.Update(ctx, matter)
	if err != nil {
		return nil, fmt.Errorf("failed to store extraction: %w", err)
	}

	return &ExtractMatterResult{Matter: matter}, nil
}

// CorrectFieldRequest represents a single reviewer correction
type CorrectFieldRequest struct {
	MatterID uuid.UUID
	Path     string // dotted field path, e.g. "client_party.first_name"
	Value    string // empty string clears the field
}

// CorrectFieldResult represents the result of applying a correction
type CorrectFieldResult struct {
	Matter *models.Matter
}

// CorrectField applies one reviewer correction to the stored extraction.
// Corrections are only allowed before the matter is processed.
func (s *MatterService) CorrectField(ctx context.Context, req CorrectFieldRequest) (*CorrectFieldResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}

	matter, err := s.matterRepo.GetByID(ctx, req.MatterID)
	if err != nil {
		return nil, ErrMatterNotFound
	}

	if matter.Extraction == nil {
		return nil, ErrNoExtraction
	}
	if matter.Status == models.MatterStatusProcessed || matter.Status == models.MatterStatusArchived {
		return nil, ErrMatterNotEditable
	}

	if err := matter.Extraction.SetField(req.Path, req.Value); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFieldPath, req.Path)
	}

	err = s.matterRepo.UpdateExtraction(ctx, matter.ID, matter.Extraction)
	if err != nil {
		return nil, fmt.Errorf("failed to store correction: %w", err)
	}

	return &CorrectFieldResult{Matter: matter}, nil
}

// VerifyMatterRequest represents a request to mark an extraction verified
type VerifyMatterRequest struct {
	MatterID uuid.UUID
}

// VerifyMatterResult represents the result of verifying a matter
type VerifyMatterResult struct {
	Matter *models.Matter
}

// VerifyMatter marks the extraction as human-verified, which gates retainer
// generation and downstream processing
func (s *MatterService) VerifyMatter(ctx context.Context, req VerifyMatterRequest) (*VerifyMatterResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}

	matter, err := s.matterRepo.GetByID(ctx, req.MatterID)
	if err != nil {
		return nil, ErrMatterNotFound
	}

	if matter.Extraction == nil {
		return nil, ErrNoExtraction
	}

	matter.Status = models.MatterStatusVerified
	err = s.matterRepo.Update(ctx, matter)
	if err != nil {
		return nil, err
	}

	return &VerifyMatterResult{Matter: matter}, nil
}
