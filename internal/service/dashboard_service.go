package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

type userCounter interface {
	CountByRole(ctx context.Context) (map[models.UserRole]int, error)
}

type noticeStatsRepository interface {
	CountByStatus(ctx context.Context) (map[models.NoticeStatus]int, error)
	List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, int, error)
}

type faqStatsRepository interface {
	CountByStatus(ctx context.Context) (map[models.FAQStatus]int, error)
	CountByAsker(ctx context.Context, userID string) (int, error)
	List(ctx context.Context, filter models.FAQFilter) ([]models.FAQ, error)
}

type documentCounter interface {
	Count(ctx context.Context) (int, error)
}

type websiteCounter interface {
	CountWebsites(ctx context.Context) (int, error)
}

type emailLogLister interface {
	ListEmailLogs(ctx context.Context, limit int) ([]models.EmailLog, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL    time.Duration
	RecentLimit int
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Users     userCounter
	Notices   noticeStatsRepository
	FAQs      faqStatsRepository
	Documents documentCounter
	Websites  websiteCounter
	Emails    emailLogLister
	Cache     *CacheService
	Logger    *zap.Logger
	Config    DashboardServiceConfig
}

// DashboardService composes the admin and student dashboards.
type DashboardService struct {
	users     userCounter
	notices   noticeStatsRepository
	faqs      faqStatsRepository
	documents documentCounter
	websites  websiteCounter
	emails    emailLogLister
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
	cfg       DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 5
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		users:     params.Users,
		notices:   params.Notices,
		faqs:      params.FAQs,
		documents: params.Documents,
		websites:  params.Websites,
		emails:    params.Emails,
		cache:     params.Cache,
		logger:    logger,
		now:       time.Now,
		cfg:       cfg,
	}
}

// Admin returns the admin dashboard and indicates cache utilisation.
func (s *DashboardService) Admin(ctx context.Context) (*models.AdminDashboard, bool, error) {
	var cached models.AdminDashboard
	if hit, err := s.cache.Get(ctx, cacheKeyAdminDashboard, &cached); err != nil {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
	} else if hit {
		return &cached, true, nil
	}

	summary, err := s.composeAdmin(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build dashboard")
	}
	if err := s.cache.Set(ctx, cacheKeyAdminDashboard, summary, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return summary, false, nil
}

// Student returns what the student can currently see.
func (s *DashboardService) Student(ctx context.Context, viewer models.Viewer) (*models.StudentDashboard, error) {
	scope := NoticeScopeFor(viewer)
	_, visible, err := s.notices.List(ctx, models.NoticeFilter{Scope: scope, PageSize: 1})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notices")
	}
	today, _, err := s.notices.List(ctx, models.NoticeFilter{Scope: scope, Today: true, PageSize: 20})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list today's notices")
	}
	mine, err := s.faqs.CountByAsker(ctx, viewer.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count questions")
	}
	if today == nil {
		today = []models.Notice{}
	}
	return &models.StudentDashboard{
		VisibleNotices: visible,
		MyFAQs:         mine,
		TodayNotices:   today,
		GeneratedAt:    s.now().UTC(),
	}, nil
}

func (s *DashboardService) composeAdmin(ctx context.Context) (*models.AdminDashboard, error) {
	roles, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	noticeCounts, err := s.notices.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	faqCounts, err := s.faqs.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	documents, err := s.documents.Count(ctx)
	if err != nil {
		return nil, err
	}
	websites, err := s.websites.CountWebsites(ctx)
	if err != nil {
		return nil, err
	}
	recentNotices, _, err := s.notices.List(ctx, models.NoticeFilter{PageSize: s.cfg.RecentLimit})
	if err != nil {
		return nil, err
	}
	recentFAQs, err := s.faqs.List(ctx, models.FAQFilter{Limit: s.cfg.RecentLimit})
	if err != nil {
		return nil, err
	}
	recentEmails, err := s.emails.ListEmailLogs(ctx, s.cfg.RecentLimit)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range roles {
		total += n
	}
	return &models.AdminDashboard{
		TotalUsers:       total,
		TotalStudents:    roles[models.RoleStudent],
		TotalModerators:  roles[models.RoleModerator],
		PublishedNotices: noticeCounts[models.NoticeStatusPublished],
		DraftNotices:     noticeCounts[models.NoticeStatusDraft],
		AnsweredFAQs:     faqCounts[models.FAQStatusAnswered],
		PendingFAQs:      faqCounts[models.FAQStatusPending],
		Documents:        documents,
		Websites:         websites,
		RecentNotices:    nonNil(recentNotices),
		RecentFAQs:       nonNil(recentFAQs),
		RecentEmails:     nonNil(recentEmails),
		GeneratedAt:      s.now().UTC(),
	}, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
