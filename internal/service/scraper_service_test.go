package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/storage"
	"github.com/noah-isme/campus-assistant-api/pkg/textnorm"
)

type mockScraperRepo struct {
	sites []models.ScrapedWebsite
	logs  []models.ScrapeLog
}

func (m *mockScraperRepo) CreateWebsite(ctx context.Context, site *models.ScrapedWebsite) (bool, error) {
	for _, s := range m.sites {
		if s.URL == site.URL {
			return false, nil
		}
	}
	site.ID = fmt.Sprintf("%d", len(m.sites)+1)
	m.sites = append(m.sites, *site)
	return true, nil
}

func (m *mockScraperRepo) ListWebsites(ctx context.Context) ([]models.ScrapedWebsite, error) {
	return m.sites, nil
}

func (m *mockScraperRepo) GetWebsite(ctx context.Context, id string) (*models.ScrapedWebsite, error) {
	for i := range m.sites {
		if m.sites[i].ID == id {
			site := m.sites[i]
			return &site, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockScraperRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	for i := range m.sites {
		if m.sites[i].ID == id {
			m.sites[i].Enabled = enabled
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockScraperRepo) DeleteWebsite(ctx context.Context, id string) error {
	return sql.ErrNoRows
}

func (m *mockScraperRepo) CreateLog(ctx context.Context, log *models.ScrapeLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockScraperRepo) ListLogs(ctx context.Context, limit int) ([]models.ScrapeLog, error) {
	return m.logs, nil
}

const campusPage = `<html><head><title>Campus</title><style>body{color:red}</style>
<script>var hidden = "never";</script></head>
<body><h1>Admissions   open</h1><p>Apply by <b>June</b>.</p><!-- note -->
<noscript>enable js</noscript>
<a href="/docs/Prospectus.PDF">prospectus</a>
<a href="missing.pdf">missing</a>
<a href="/about">about</a></body></html>`

func newCampusServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(campusPage))
	})
	mux.HandleFunc("/docs/Prospectus.PDF", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newScraperFixture(t *testing.T) (*ScraperService, *mockScraperRepo, *mockDocumentRepo, *mockLogRepo, string) {
	t.Helper()
	repo := &mockScraperRepo{}
	docs := newMockDocumentRepo()
	logs := &mockLogRepo{}
	ingest := newTestIngest(docs, logs, func(path string) (string, error) {
		return "Prospectus  2025 fees", nil
	})
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	svc := NewScraperService(repo, ingest, files, nil, nil, NewLogService(logs, zap.NewNop()), nil, zap.NewNop(), ScraperConfig{Timeout: 5 * time.Second, UserAgent: "test-agent"})
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return svc, repo, docs, logs, dir
}

func TestVisibleTextAndPDFLinks(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(campusPage))
	require.NoError(t, err)

	links := PDFLinks("http://campus.test/news/index.html", doc)
	assert.Equal(t, []string{"http://campus.test/docs/Prospectus.PDF", "http://campus.test/news/missing.pdf"}, links)

	text := VisibleText(doc)
	assert.Equal(t, "Campus Admissions open Apply by June . prospectus missing about", text)
	assert.NotContains(t, text, "hidden")
	assert.NotContains(t, text, "enable js")
}

func TestScrapeIngestsTextAndPDFs(t *testing.T) {
	srv := newCampusServer(t)
	svc, repo, docs, logs, dir := newScraperFixture(t)
	ctx := context.Background()

	site, err := svc.AddWebsite(ctx, dto.AddWebsiteRequest{URL: srv.URL + "/", Name: "Campus"})
	require.NoError(t, err)

	result, err := svc.Run(ctx, site.ID)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, models.ScrapeSuccess, result.Status)

	require.Len(t, repo.logs, 1)
	entry := repo.logs[0]
	assert.Equal(t, models.ScrapeSuccess, entry.Status)
	assert.Equal(t, 1, entry.PDFLinksFound)
	assert.Greater(t, entry.ExtractedTextLength, 0)

	require.Len(t, docs.byHash, 2)
	pdfDoc := docs.byHash[textnorm.Hash("prospectus 2025 fees")]
	assert.Equal(t, models.SourceScrapePDF, pdfDoc.SourceType)
	assert.Equal(t, site.ID, *pdfDoc.SourceID)

	saved, err := filepath.Glob(filepath.Join(dir, "site1_1700000000_*.pdf"))
	require.NoError(t, err)
	require.Len(t, saved, 1)
	_, err = os.Stat(saved[0])
	assert.NoError(t, err)

	msgs := logs.messages(models.LogModuleScraper)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "pdf download/extract error")
}

func TestScrapeFailureStillWritesLog(t *testing.T) {
	srv := newCampusServer(t)
	svc, repo, _, logs, _ := newScraperFixture(t)
	site := &models.ScrapedWebsite{ID: "9", URL: srv.URL + "/gone", Enabled: true}

	result := svc.Scrape(context.Background(), site)
	assert.False(t, result.OK)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, models.ScrapeError, repo.logs[0].Status)
	assert.Zero(t, repo.logs[0].ExtractedTextLength)
	assert.Zero(t, repo.logs[0].PDFLinksFound)
	assert.Contains(t, logs.messages(models.LogModuleScraper)[0], "scrape error:")
}

func TestRunAllCountsDisabledSites(t *testing.T) {
	srv := newCampusServer(t)
	svc, repo, _, _, _ := newScraperFixture(t)
	repo.sites = []models.ScrapedWebsite{
		{ID: "1", URL: srv.URL + "/", Enabled: true},
		{ID: "2", URL: srv.URL + "/gone", Enabled: true},
		{ID: "3", URL: srv.URL + "/", Enabled: false},
	}

	summary, err := svc.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OK)
	assert.Equal(t, 3, summary.Total)
	assert.Len(t, repo.logs, 2)

	result, err := svc.Run(context.Background(), "3")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, models.ScrapeDisabled, result.Status)
}

func TestAddWebsiteRejectsDuplicates(t *testing.T) {
	svc, _, _, _, _ := newScraperFixture(t)
	ctx := context.Background()

	_, err := svc.AddWebsite(ctx, dto.AddWebsiteRequest{URL: "https://college.example/news"})
	require.NoError(t, err)
	_, err = svc.AddWebsite(ctx, dto.AddWebsiteRequest{URL: " https://college.example/news "})
	dup := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, dup.Status)
	assert.Equal(t, "URL already added", dup.Message)

	_, err = svc.AddWebsite(ctx, dto.AddWebsiteRequest{URL: "not a url"})
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestRunAllAsyncRequiresStartedQueue(t *testing.T) {
	svc, _, _, _, _ := newScraperFixture(t)
	_, err := svc.RunAllAsync()
	require.Error(t, err)

	svc.Start(context.Background())
	defer svc.Stop()
	id, err := svc.RunAllAsync()
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestScrapeRejectsOversizedBody(t *testing.T) {
	srv := newCampusServer(t)
	svc, repo, docs, logs, _ := newScraperFixture(t)
	svc.maxBytes = 64
	site := &models.ScrapedWebsite{ID: "4", URL: srv.URL + "/", Enabled: true}

	result := svc.Scrape(context.Background(), site)

	assert.False(t, result.OK)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, models.ScrapeError, repo.logs[0].Status)
	assert.Empty(t, docs.byHash)
	assert.Contains(t, logs.messages(models.LogModuleScraper)[0], "body exceeds 64 bytes")
}

func TestScraperDefaultsMaxBytes(t *testing.T) {
	svc := NewScraperService(&mockScraperRepo{}, nil, nil, nil, nil, nil, nil, zap.NewNop(), ScraperConfig{})
	assert.Equal(t, int64(defaultScrapeMaxBytes), svc.maxBytes)
}

func TestScraperChangesInvalidateAdminDashboard(t *testing.T) {
	srv := newCampusServer(t)
	svc, _, _, _, _ := newScraperFixture(t)
	store := newMemoryCache()
	svc.cache = NewCacheService(store, nil, time.Minute, zap.NewNop(), true)
	ctx := context.Background()
	prime := func() {
		require.NoError(t, svc.cache.Set(ctx, cacheKeyAdminDashboard, map[string]int{"websites": 0}, time.Minute))
	}

	prime()
	site, err := svc.AddWebsite(ctx, dto.AddWebsiteRequest{URL: srv.URL + "/"})
	require.NoError(t, err)
	assert.NotContains(t, store.entries, cacheKeyAdminDashboard)

	prime()
	svc.Scrape(ctx, site)
	assert.NotContains(t, store.entries, cacheKeyAdminDashboard)
}
