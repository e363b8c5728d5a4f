package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

type faqRepository interface {
	Create(ctx context.Context, faq *models.FAQ) error
	GetByID(ctx context.Context, id string) (*models.FAQ, error)
	Answer(ctx context.Context, id, answer string, answeredBy *string, at time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.FAQFilter) ([]models.FAQ, error)
}

// FAQService manages the question queue and feeds answers to the chatbot corpus.
type FAQService struct {
	repo      faqRepository
	ingest    *IngestService
	cache     *CacheService
	logs      *LogService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFAQService constructs a FAQService.
func NewFAQService(repo faqRepository, ingest *IngestService, cache *CacheService, logs *LogService, validate *validator.Validate, logger *zap.Logger) *FAQService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FAQService{repo: repo, ingest: ingest, cache: cache, logs: logs, validator: validate, logger: logger}
}

// Submit records a student's question as pending.
func (s *FAQService) Submit(ctx context.Context, viewer models.Viewer, req dto.SubmitFAQRequest) (*models.FAQ, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	askedBy := viewer.UserID
	faq := &models.FAQ{
		Question:         strings.TrimSpace(req.Question),
		Category:         optionalText(strings.TrimSpace(req.Category)),
		TargetDepartment: trimmedOrNil(req.TargetDepartment),
		Status:           models.FAQStatusPending,
		AskedBy:          &askedBy,
	}
	if err := s.repo.Create(ctx, faq); err != nil {
		s.logs.Record(ctx, models.LogModuleFAQ, fmt.Sprintf("submit error: %v", err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit question")
	}
	_ = s.cache.Invalidate(ctx, cacheKeyAdminDashboard)
	return faq, nil
}

// Create lets moderators and admins add a question, answering it straight
// away when an answer is supplied.
func (s *FAQService) Create(ctx context.Context, viewer models.Viewer, req dto.CreateFAQRequest) (*models.FAQ, error) {
	faq, err := s.Submit(ctx, viewer, dto.SubmitFAQRequest{
		Question:         req.Question,
		Category:         req.Category,
		TargetDepartment: req.TargetDepartment,
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Answer) == "" {
		return faq, nil
	}
	return s.Answer(ctx, viewer, faq.ID, dto.AnswerFAQRequest{Answer: req.Answer})
}

// Answer sets the answer once and ingests "Q: ...\nA: ..." as public content.
func (s *FAQService) Answer(ctx context.Context, viewer models.Viewer, id string, req dto.AnswerFAQRequest) (*models.FAQ, error) {
	req.Answer = strings.TrimSpace(req.Answer)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "answer is required")
	}
	faq, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if faq.Status == models.FAQStatusAnswered {
		return nil, appErrors.Clone(appErrors.ErrConflict, "FAQ already answered")
	}

	answeredBy := viewer.UserID
	now := time.Now().UTC()
	if err := s.repo.Answer(ctx, faq.ID, req.Answer, &answeredBy, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "FAQ already answered")
		}
		s.logs.Record(ctx, models.LogModuleFAQ, fmt.Sprintf("answer error: %v", err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to answer question")
	}
	faq.Answer = &req.Answer
	faq.AnsweredBy = &answeredBy
	faq.AnsweredAt = &now
	faq.Status = models.FAQStatusAnswered

	sourceID := faq.ID
	text := fmt.Sprintf("Q: %s\nA: %s", faq.Question, req.Answer)
	if _, err := s.ingest.IngestText(ctx, models.SourceFAQ, &sourceID, text, models.DocumentPublic); err != nil {
		s.logger.Warn("faq ingestion failed", zap.String("faq_id", faq.ID), zap.Error(err))
	}
	_ = s.cache.Invalidate(ctx, cacheKeyAdminDashboard)
	return faq, nil
}

// Delete removes a question.
func (s *FAQService) Delete(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete question")
	}
	_ = s.cache.Invalidate(ctx, cacheKeyAdminDashboard)
	return nil
}

// ListAnswered returns answered questions filtered by category and text.
func (s *FAQService) ListAnswered(ctx context.Context, category, q string) ([]models.FAQ, error) {
	filter := FAQFilterFor(models.GuestViewer())
	filter.Category = strings.TrimSpace(category)
	filter.Search = strings.TrimSpace(q)
	return s.list(ctx, filter)
}

// ListMine returns everything the viewer has asked, in any status.
func (s *FAQService) ListMine(ctx context.Context, viewer models.Viewer) ([]models.FAQ, error) {
	return s.list(ctx, models.FAQFilter{AskedBy: viewer.UserID})
}

// ListForModeration returns the queue a moderator or admin works from.
func (s *FAQService) ListForModeration(ctx context.Context, viewer models.Viewer) ([]models.FAQ, error) {
	return s.list(ctx, FAQFilterFor(viewer))
}

func (s *FAQService) list(ctx context.Context, filter models.FAQFilter) ([]models.FAQ, error) {
	faqs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	if faqs == nil {
		faqs = []models.FAQ{}
	}
	return faqs, nil
}

func (s *FAQService) load(ctx context.Context, id string) (*models.FAQ, error) {
	faq, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	return faq, nil
}
