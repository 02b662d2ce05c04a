package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"strings"
	"time"

	"civiceye-be/models"
	"civiceye-be/store"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultMaxImages is the attachment cap per created issue.
	DefaultMaxImages = 5
	// DefaultHeatmapLimit and MaxHeatmapLimit bound Heatmap results.
	DefaultHeatmapLimit = 100
	MaxHeatmapLimit     = 500
)

// Uploader stores issue attachments. Save is all-or-nothing and returns one
// reference per file, in order. Discard removes previously saved references.
type Uploader interface {
	Save(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
	Discard(refs []string)
}

type IssueService struct {
	store     store.IssueStore
	uploader  Uploader
	validate  *validator.Validate
	maxImages int
	now       func() time.Time
}

func NewIssueService(issueStore store.IssueStore, uploader Uploader, maxImages int) *IssueService {
	if maxImages <= 0 {
		maxImages = DefaultMaxImages
	}
	return &IssueService{
		store:     issueStore,
		uploader:  uploader,
		validate:  newValidator(),
		maxImages: maxImages,
		now:       time.Now,
	}
}

// Create validates input, stores the attachments and persists a new issue.
func (s *IssueService) Create(ctx context.Context, input models.IssueInput, files []*multipart.FileHeader) (*models.Issue, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}
	if len(files) > s.maxImages {
		return nil, invalid("images", fmt.Sprintf("accepts at most %d files", s.maxImages))
	}

	images := []string{}
	if len(files) > 0 {
		refs, err := s.uploader.Save(ctx, files)
		if err != nil {
			if IsValidation(err) {
				return nil, err
			}
			return nil, &StorageError{Op: "upload", Err: err}
		}
		images = refs
	}

	priority := input.Priority
	if priority == "" {
		priority = models.Low
	}
	status := input.Status
	if status == "" {
		status = models.Pending
	}

	var location *models.Location
	if input.Location != nil && !input.Location.IsZero() {
		location = input.Location
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	issue := &models.Issue{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    priority,
		Status:      status,
		Location:    location,
		Images:      images,
		ReportedAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Insert(ctx, issue); err != nil {
		if len(images) > 0 {
			s.uploader.Discard(images)
		}
		return nil, &StorageError{Op: "insert", Err: err}
	}
	return issue, nil
}

// List returns every issue, most recent first.
func (s *IssueService) List(ctx context.Context) ([]models.Issue, error) {
	issues, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return issues, nil
}

func (s *IssueService) GetByID(ctx context.Context, id string) (*models.Issue, error) {
	issue, err := s.store.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}
	return issue, nil
}

// UpdateByID merges the fields present in patch into the stored issue.
func (s *IssueService) UpdateByID(ctx context.Context, id string, patch models.IssuePatch) (*models.Issue, error) {
	if patch.IsEmpty() {
		return nil, invalid("", "no updatable fields supplied")
	}
	if err := s.check(patch); err != nil {
		return nil, err
	}

	issue, err := s.store.Update(ctx, id, patch, s.now().UTC().Truncate(time.Millisecond))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "update", Err: err}
	}
	return issue, nil
}

// Heatmap returns located issues for the map view. limit is clamped to
// [1, MaxHeatmapLimit]; zero selects DefaultHeatmapLimit.
func (s *IssueService) Heatmap(ctx context.Context, limit int) ([]models.HeatmapPoint, error) {
	switch {
	case limit <= 0:
		limit = DefaultHeatmapLimit
	case limit > MaxHeatmapLimit:
		limit = MaxHeatmapLimit
	}
	points, err := s.store.Heatmap(ctx, limit)
	if err != nil {
		return nil, &StorageError{Op: "heatmap", Err: err}
	}
	return points, nil
}

func (s *IssueService) Stats(ctx context.Context) (*models.IssueStats, error) {
	stats, err := s.store.Stats(ctx, s.now())
	if err != nil {
		return nil, &StorageError{Op: "stats", Err: err}
	}
	return stats, nil
}

// check runs struct validation and converts the first failure.
func (s *IssueService) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid("", err.Error())
	}
	fe := fieldErrs[0]
	return invalid(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return "is required"
	case "issue_priority":
		return "must be one of Low, Medium, High"
	case "issue_status":
		return "must be one of Pending, In Progress, Resolved"
	case "gte", "lte":
		return "is out of range"
	}
	return "is invalid"
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	_ = v.RegisterValidation("issue_priority", func(fl validator.FieldLevel) bool {
		return models.IssuePriority(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("issue_status", func(fl validator.FieldLevel) bool {
		return models.IssueStatus(fl.Field().String()).Valid()
	})
	return v
}
