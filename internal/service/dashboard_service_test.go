package service

import (
	"context"
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

type dashboardStats struct {
	roles        map[models.UserRole]int
	noticeCounts map[models.NoticeStatus]int
	faqCounts    map[models.FAQStatus]int
	calls        int
	filters      []models.NoticeFilter
}

func (d *dashboardStats) CountByRole(ctx context.Context) (map[models.UserRole]int, error) {
	d.calls++
	return d.roles, nil
}

func (d *dashboardStats) CountWebsites(ctx context.Context) (int, error) { return 2, nil }

func (d *dashboardStats) Count(ctx context.Context) (int, error) { return 7, nil }

func (d *dashboardStats) ListEmailLogs(ctx context.Context, limit int) ([]models.EmailLog, error) {
	return nil, nil
}

type dashboardNotices struct{ stats *dashboardStats }

func (n dashboardNotices) CountByStatus(ctx context.Context) (map[models.NoticeStatus]int, error) {
	return n.stats.noticeCounts, nil
}

func (n dashboardNotices) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, int, error) {
	n.stats.filters = append(n.stats.filters, filter)
	if filter.Today {
		return []models.Notice{{ID: "n-today", Title: "Holiday"}}, 1, nil
	}
	return nil, 4, nil
}

type dashboardFAQs struct{ stats *dashboardStats }

func (f dashboardFAQs) CountByStatus(ctx context.Context) (map[models.FAQStatus]int, error) {
	return f.stats.faqCounts, nil
}

func (f dashboardFAQs) CountByAsker(ctx context.Context, userID string) (int, error) { return 3, nil }

func (f dashboardFAQs) List(ctx context.Context, filter models.FAQFilter) ([]models.FAQ, error) {
	return nil, nil
}

func newDashboardFixture(cache *CacheService) (*DashboardService, *dashboardStats) {
	stats := &dashboardStats{
		roles:        map[models.UserRole]int{models.RoleAdmin: 1, models.RoleModerator: 2, models.RoleStudent: 10},
		noticeCounts: map[models.NoticeStatus]int{models.NoticeStatusPublished: 5, models.NoticeStatusDraft: 1},
		faqCounts:    map[models.FAQStatus]int{models.FAQStatusAnswered: 4, models.FAQStatusPending: 6},
	}
	svc := NewDashboardService(DashboardServiceParams{
		Users:     stats,
		Notices:   dashboardNotices{stats},
		FAQs:      dashboardFAQs{stats},
		Documents: stats,
		Websites:  stats,
		Emails:    stats,
		Cache:     cache,
		Logger:    zap.NewNop(),
	})
	return svc, stats
}

func TestAdminDashboardIsCached(t *testing.T) {
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, zap.NewNop(), true)
	svc, stats := newDashboardFixture(cache)
	ctx := context.Background()

	first, hit, err := svc.Admin(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 13, first.TotalUsers)
	assert.Equal(t, 10, first.TotalStudents)
	assert.Equal(t, 5, first.PublishedNotices)
	assert.Equal(t, 6, first.PendingFAQs)
	assert.Equal(t, 7, first.Documents)
	assert.Equal(t, 2, first.Websites)
	assert.NotNil(t, first.RecentEmails)

	second, hit, err := svc.Admin(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.TotalUsers, second.TotalUsers)
	assert.Equal(t, 1, stats.calls)

	require.NoError(t, cache.Invalidate(ctx, cacheKeyAdminDashboard))
	_, hit, err = svc.Admin(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, stats.calls)
}

func TestStudentDashboardUsesViewerScope(t *testing.T) {
	svc, stats := newDashboardFixture(nil)
	viewer := studentViewer("CSE", 3)

	dash, err := svc.Student(context.Background(), viewer)
	require.NoError(t, err)
	assert.Equal(t, 4, dash.VisibleNotices)
	assert.Equal(t, 3, dash.MyFAQs)
	require.Len(t, dash.TodayNotices, 1)

	require.Len(t, stats.filters, 2)
	assert.Equal(t, NoticeScopeFor(viewer), stats.filters[0].Scope)
	assert.True(t, stats.filters[1].Today)
}
