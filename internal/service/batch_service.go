package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Ninjax26/Classroom-scheduler/internal/models"
	appErrors "github.com/Ninjax26/Classroom-scheduler/pkg/errors"
)

type batchRepository interface {
	List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, int, error)
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	ExistsByLabel(ctx context.Context, label string, excludeID string) (bool, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id string) error
}

type batchSubjectLookup interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// CreateBatchRequest captures fields for creating student batches.
type CreateBatchRequest struct {
	Label            string   `json:"label" validate:"required"`
	Department       string   `json:"department" validate:"required"`
	Year             int      `json:"year" validate:"required,min=1,max=6"`
	Size             int      `json:"size" validate:"required,min=1"`
	AssignedSubjects []string `json:"assigned_subjects"`
	Status           string   `json:"status" validate:"omitempty,oneof=active inactive graduated"`
}

// UpdateBatchRequest modifies batch fields.
type UpdateBatchRequest struct {
	Label            string   `json:"label" validate:"required"`
	Department       string   `json:"department" validate:"required"`
	Year             int      `json:"year" validate:"required,min=1,max=6"`
	Size             int      `json:"size" validate:"required,min=1"`
	AssignedSubjects []string `json:"assigned_subjects"`
	Status           string   `json:"status" validate:"required,oneof=active inactive graduated"`
}

// BatchService handles student batch workflows.
type BatchService struct {
	repo      batchRepository
	subjects  batchSubjectLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBatchService creates a new batch service.
func NewBatchService(repo batchRepository, subjects batchSubjectLookup, validate *validator.Validate, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{repo: repo, subjects: subjects, validator: validate, logger: logger}
}

// List returns paginated batches.
func (s *BatchService) List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, *models.Pagination, error) {
	batches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batches")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return batches, pagination, nil
}

// Get returns a batch by identifier.
func (s *BatchService) Get(ctx context.Context, id string) (*models.Batch, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	return batch, nil
}

// Create adds a new batch ensuring label uniqueness and valid subject links.
func (s *BatchService) Create(ctx context.Context, req CreateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}

	req.Label = strings.TrimSpace(req.Label)

	exists, err := s.repo.ExistsByLabel(ctx, req.Label, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check batch label")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "batch label already exists")
	}

	if err := s.verifySubjects(ctx, req.AssignedSubjects); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.BatchStatusActive
	}

	batch := &models.Batch{
		Label:            req.Label,
		Department:       strings.TrimSpace(req.Department),
		Year:             req.Year,
		Size:             req.Size,
		AssignedSubjects: req.AssignedSubjects,
		Status:           status,
	}

	if err := s.repo.Create(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch")
	}
	return batch, nil
}

// Update modifies an existing batch.
func (s *BatchService) Update(ctx context.Context, id string, req UpdateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}

	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	req.Label = strings.TrimSpace(req.Label)

	exists, err := s.repo.ExistsByLabel(ctx, req.Label, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check batch label")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "batch label already exists")
	}

	if err := s.verifySubjects(ctx, req.AssignedSubjects); err != nil {
		return nil, err
	}

	batch.Label = req.Label
	batch.Department = strings.TrimSpace(req.Department)
	batch.Year = req.Year
	batch.Size = req.Size
	batch.AssignedSubjects = req.AssignedSubjects
	batch.Status = req.Status

	if err := s.repo.Update(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update batch")
	}
	return batch, nil
}

// Delete removes a batch.
func (s *BatchService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete batch")
	}
	return nil
}

func (s *BatchService) verifySubjects(ctx context.Context, subjectIDs []string) error {
	if s.subjects == nil {
		return nil
	}
	for _, subjectID := range subjectIDs {
		if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrValidation, "assigned subject does not exist: "+subjectID)
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify assigned subjects")
		}
	}
	return nil
}
