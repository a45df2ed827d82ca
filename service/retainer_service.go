package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"caseintake-backend/models"
	"caseintake-backend/repository"
	"caseintake-backend/retainer"
	"caseintake-backend/storage"

	"github.com/google/uuid"
)

// RetainerService generates retainer agreements from verified extractions
type RetainerService struct {
	matterRepo *repository.MatterRepository
	fileRepo   *repository.FileRepository
	storage    storage.Storage
	now        func() time.Time
}

// RetainerServiceOption is a functional option for RetainerService
type RetainerServiceOption func(*RetainerService)

// RetainerWithMatterRepository sets the matter repository
func RetainerWithMatterRepository(repo *repository.MatterRepository) RetainerServiceOption {
	return func(s *RetainerService) {
		s.matterRepo = repo
	}
}

// RetainerWithFileRepository sets the file repository
func RetainerWithFileRepository(repo *repository.FileRepository) RetainerServiceOption {
	return func(s *RetainerService) {
		s.fileRepo = repo
	}
}

// RetainerWithStorage sets the file storage backend
func RetainerWithStorage(store storage.Storage) RetainerServiceOption {
	return func(s *RetainerService) {
		s.storage = store
	}
}

// RetainerWithClock overrides the clock, used by tests to pin the seasonal
// scheduling link and the PDF creation date
func RetainerWithClock(now func() time.Time) RetainerServiceOption {
	return func(s *RetainerService) {
		s.now = now
	}
}

// NewRetainerService creates a new retainer service
func NewRetainerService(opts ...RetainerServiceOption) *RetainerService {
	s := &RetainerService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var ErrMatterNotVerified = errors.New("matter extraction has not been verified")

// GenerateRetainerRequest represents a request to generate a retainer
type GenerateRetainerRequest struct {
	MatterID uuid.UUID
}

// GenerateRetainerResult represents the result of generating a retainer
type GenerateRetainerResult struct {
	Matter   *models.Matter
	File     *models.File
	Filename string
	Email    retainer.ClientEmail
}

// GenerateRetainer derives the document fields from the matter's verified
// extraction, composes the agreement PDF, stores it, and records the file
// against the matter. Regeneration replaces the file reference; the old PDF
// stays in storage under its own id.
func (s *RetainerService) GenerateRetainer(ctx context.Context, req GenerateRetainerRequest) (*GenerateRetainerResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}
	if s.fileRepo == nil {
		return nil, errors.New("file repository not set")
	}
	if s.storage == nil {
		return nil, errors.New("storage not set")
	}

	matter, err := s.matterRepo.GetByID(ctx, req.MatterID)
	if err != nil {
		return nil, ErrMatterNotFound
	}

	if matter.Extraction == nil {
		return nil, ErrNoExtraction
	}
	if matter.Status != models.MatterStatusVerified && matter.Status != models.MatterStatusProcessed {
		return nil, ErrMatterNotVerified
	}

	now := s.now()
	fields, err := retainer.Derive(matter.Extraction, now)
	if err != nil {
		return nil, err
	}

	pdf, filename, err := retainer.ComposePDF(fields, now)
	if err != nil {
		return nil, fmt.Errorf("failed to compose retainer: %w", err)
	}

	file := &models.File{
		ID:       uuid.New(),
		UserID:   matter.UserID,
		MatterID: &matter.ID,
		Filename: filename,
		MimeType: "application/pdf",
		Size:     int64(len(pdf)),
	}

	storagePath, err := s.storage.Upload(ctx, file.ID, filename, bytes.NewReader(pdf))
	if err != nil {
		return nil, fmt.Errorf("failed to store retainer: %w", err)
	}
	file.StoragePath = storagePath

	err = s.fileRepo.Create(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to record retainer file: %w", err)
	}

	matter.RetainerFileID = &file.ID
	err = s.matterRepo.Update(ctx, matter)
	if err != nil {
		return nil, fmt.Errorf("failed to link retainer to matter: %w", err)
	}

	return &GenerateRetainerResult{
		Matter:   matter,
		File:     file,
		Filename: filename,
		Email:    retainer.ComposeClientEmail(matter.Extraction, fields),
	}, nil
}
