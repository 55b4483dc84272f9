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

type facultyRepository interface {
	List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error)
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	Create(ctx context.Context, member *models.Faculty) error
	Update(ctx context.Context, member *models.Faculty) error
	Delete(ctx context.Context, id string) error
}

// CreateFacultyRequest captures fields for creating faculty members.
type CreateFacultyRequest struct {
	Name           string  `json:"name" validate:"required"`
	Department     string  `json:"department" validate:"required"`
	Specialization string  `json:"specialization"`
	MaxLoadPerWeek int     `json:"max_load_per_week" validate:"omitempty,min=1"`
	Status         string  `json:"status" validate:"omitempty,oneof=active inactive on-leave"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
}

// UpdateFacultyRequest modifies faculty fields.
type UpdateFacultyRequest struct {
	Name           string  `json:"name" validate:"required"`
	Department     string  `json:"department" validate:"required"`
	Specialization string  `json:"specialization"`
	MaxLoadPerWeek int     `json:"max_load_per_week" validate:"omitempty,min=1"`
	Status         string  `json:"status" validate:"required,oneof=active inactive on-leave"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
}

// FacultyService handles faculty domain workflows.
type FacultyService struct {
	repo      facultyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService creates a new faculty service.
func NewFacultyService(repo facultyRepository, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated faculty.
func (s *FacultyService) List(ctx context.Context, filter models.FacultyFilter) ([]models.Faculty, *models.Pagination, error) {
	faculty, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
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
	return faculty, pagination, nil
}

// Get returns a faculty member by identifier.
func (s *FacultyService) Get(ctx context.Context, id string) (*models.Faculty, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty member")
	}
	return member, nil
}

// Create adds a new faculty member.
func (s *FacultyService) Create(ctx context.Context, req CreateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	status := req.Status
	if status == "" {
		status = models.FacultyStatusActive
	}
	maxLoad := req.MaxLoadPerWeek
	if maxLoad <= 0 {
		maxLoad = 20
	}

	member := &models.Faculty{
		Name:           strings.TrimSpace(req.Name),
		Department:     strings.TrimSpace(req.Department),
		Specialization: req.Specialization,
		MaxLoadPerWeek: maxLoad,
		Status:         status,
		Email:          req.Email,
		Phone:          req.Phone,
	}

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty member")
	}
	return member, nil
}

// Update modifies an existing faculty member.
func (s *FacultyService) Update(ctx context.Context, id string, req UpdateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty member")
	}

	member.Name = strings.TrimSpace(req.Name)
	member.Department = strings.TrimSpace(req.Department)
	member.Specialization = req.Specialization
	if req.MaxLoadPerWeek > 0 {
		member.MaxLoadPerWeek = req.MaxLoadPerWeek
	}
	member.Status = req.Status
	member.Email = req.Email
	member.Phone = req.Phone

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty member")
	}
	return member, nil
}

// Delete removes a faculty member.
func (s *FacultyService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "faculty member not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty member")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faculty member")
	}
	return nil
}
