package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/jobs"
	"github.com/noah-isme/campus-assistant-api/pkg/textnorm"
)

const jobTypeScrapeAll = "scrape_all"

type scraperRepository interface {
	CreateWebsite(ctx context.Context, site *models.ScrapedWebsite) (bool, error)
	ListWebsites(ctx context.Context) ([]models.ScrapedWebsite, error)
	GetWebsite(ctx context.Context, id string) (*models.ScrapedWebsite, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	DeleteWebsite(ctx context.Context, id string) error
	CreateLog(ctx context.Context, log *models.ScrapeLog) error
	ListLogs(ctx context.Context, limit int) ([]models.ScrapeLog, error)
}

type pdfSaver interface {
	Save(name string, data []byte) (string, error)
}

// ScraperConfig tunes outbound fetching.
type ScraperConfig struct {
	Timeout   time.Duration
	UserAgent string
	Workers   int
	// MaxBytes caps a single page or PDF download.
	MaxBytes int64
}

const defaultScrapeMaxBytes = 20 << 20

// ScraperService fetches registered sites and feeds their text and PDFs to ingestion.
type ScraperService struct {
	repo      scraperRepository
	ingest    *IngestService
	files     pdfSaver
	client    *http.Client
	userAgent string
	maxBytes  int64
	queue     *jobs.Queue
	cache     *CacheService
	metrics   *MetricsService
	logs      *LogService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewScraperService constructs a ScraperService with its background queue.
func NewScraperService(repo scraperRepository, ingest *IngestService, files pdfSaver, cache *CacheService, metrics *MetricsService, logs *LogService, validate *validator.Validate, logger *zap.Logger, cfg ScraperConfig) *ScraperService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultScrapeMaxBytes
	}
	svc := &ScraperService{
		repo:      repo,
		ingest:    ingest,
		files:     files,
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		cache:     cache,
		metrics:   metrics,
		logs:      logs,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
	svc.queue = jobs.NewQueue("scraper", svc.handleJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: 0,
		Logger:     logger,
	})
	return svc
}

// Start launches the background workers used by RunAllAsync.
func (s *ScraperService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for in-flight background runs.
func (s *ScraperService) Stop() {
	s.queue.Stop()
}

// AddWebsite registers a URL for scraping.
func (s *ScraperService) AddWebsite(ctx context.Context, req dto.AddWebsiteRequest) (*models.ScrapedWebsite, error) {
	req.URL = strings.TrimSpace(req.URL)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "a valid URL is required")
	}
	site := &models.ScrapedWebsite{URL: req.URL, Name: optionalText(strings.TrimSpace(req.Name)), Enabled: true}
	created, err := s.repo.CreateWebsite(ctx, site)
	if err != nil {
		s.logs.Record(ctx, models.LogModuleScraper, fmt.Sprintf("add error: %v", err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add website")
	}
	if !created {
		return nil, appErrors.Clone(appErrors.ErrConflict, "URL already added")
	}
	_ = s.cache.Invalidate(ctx, cacheKeyAdminDashboard)
	return site, nil
}

// ListWebsites returns every registered site.
func (s *ScraperService) ListWebsites(ctx context.Context) ([]models.ScrapedWebsite, error) {
	sites, err := s.repo.ListWebsites(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list websites")
	}
	if sites == nil {
		sites = []models.ScrapedWebsite{}
	}
	return sites, nil
}

// SetEnabled toggles a site.
func (s *ScraperService) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if err := s.repo.SetEnabled(ctx, id, enabled); err != nil {
		return s.siteError(err, "failed to update website")
	}
	return nil
}

// DeleteWebsite removes a site and its logs.
func (s *ScraperService) DeleteWebsite(ctx context.Context, id string) error {
	if err := s.repo.DeleteWebsite(ctx, id); err != nil {
		return s.siteError(err, "failed to delete website")
	}
	_ = s.cache.Invalidate(ctx, cacheKeyAdminDashboard)
	return nil
}

// Logs returns recent scrape attempts.
func (s *ScraperService) Logs(ctx context.Context, limit int) ([]models.ScrapeLog, error) {
	logs, err := s.repo.ListLogs(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scrape logs")
	}
	if logs == nil {
		logs = []models.ScrapeLog{}
	}
	return logs, nil
}

// Run scrapes one site by id.
func (s *ScraperService) Run(ctx context.Context, id string) (*models.ScrapeResult, error) {
	site, err := s.repo.GetWebsite(ctx, id)
	if err != nil {
		return nil, s.siteError(err, "failed to load website")
	}
	if !site.Enabled {
		return &models.ScrapeResult{OK: false, Status: models.ScrapeDisabled}, nil
	}
	result := s.Scrape(ctx, site)
	return &result, nil
}

// RunAll scrapes every enabled site. Disabled sites count toward the total.
func (s *ScraperService) RunAll(ctx context.Context) (*models.ScrapeSummary, error) {
	sites, err := s.repo.ListWebsites(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list websites")
	}
	summary := &models.ScrapeSummary{}
	for i := range sites {
		summary.Total++
		if !sites[i].Enabled {
			continue
		}
		if s.Scrape(ctx, &sites[i]).OK {
			summary.OK++
		}
	}
	return summary, nil
}

// RunAllAsync queues a RunAll and returns the job id.
func (s *ScraperService) RunAllAsync() (string, error) {
	id := uuid.NewString()
	if err := s.queue.Enqueue(jobs.Job{ID: id, Type: jobTypeScrapeAll}); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue scrape")
	}
	return id, nil
}

func (s *ScraperService) handleJob(ctx context.Context, job jobs.Job) error {
	if job.Type != jobTypeScrapeAll {
		return fmt.Errorf("unknown job type %q", job.Type)
	}
	summary, err := s.RunAll(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("background scrape finished", zap.String("job_id", job.ID), zap.Int("ok", summary.OK), zap.Int("total", summary.Total))
	return nil
}

// Scrape fetches one page, ingests its visible text and linked PDFs, and
// always records a ScrapeLog row.
func (s *ScraperService) Scrape(ctx context.Context, site *models.ScrapedWebsite) models.ScrapeResult {
	entry := &models.ScrapeLog{WebsiteID: site.ID, Status: models.ScrapeSuccess}
	defer func() {
		if err := s.repo.CreateLog(ctx, entry); err != nil {
			s.logger.Warn("failed to write scrape log", zap.String("website_id", site.ID), zap.Error(err))
		}
		s.metrics.RecordScrape(entry.Status)
		_ = s.cache.Invalidate(ctx, cacheKeyAdminDashboard)
	}()

	body, err := s.fetch(ctx, site.URL)
	if err != nil {
		entry.Status = models.ScrapeError
		s.logs.Record(ctx, models.LogModuleScraper, fmt.Sprintf("scrape error: %v", err))
		return models.ScrapeResult{OK: false, Status: entry.Status}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		entry.Status = models.ScrapeError
		s.logs.Record(ctx, models.LogModuleScraper, fmt.Sprintf("scrape error: %v", err))
		return models.ScrapeResult{OK: false, Status: entry.Status}
	}

	siteID := site.ID
	if text := VisibleText(doc); text != "" {
		entry.ExtractedTextLength = utf8.RuneCountInString(text)
		if _, err := s.ingest.IngestText(ctx, models.SourceScrapeText, &siteID, text, models.DocumentPublic); err != nil {
			entry.Status = models.ScrapeError
			s.logs.Record(ctx, models.LogModuleScraper, fmt.Sprintf("scrape error: %v", err))
			return models.ScrapeResult{OK: false, Status: entry.Status}
		}
	}

	for _, link := range PDFLinks(site.URL, doc) {
		if err := s.ingestPDF(ctx, site, link); err != nil {
			s.logs.Record(ctx, models.LogModuleScraper, fmt.Sprintf("pdf download/extract error: %v", err))
			continue
		}
		entry.PDFLinksFound++
	}
	return models.ScrapeResult{OK: true, Status: entry.Status}
}

func (s *ScraperService) ingestPDF(ctx context.Context, site *models.ScrapedWebsite, link string) error {
	data, err := s.fetch(ctx, link)
	if err != nil {
		return err
	}
	sum := sha256.Sum256([]byte(link))
	name := fmt.Sprintf("site%s_%d_%s.pdf", site.ID, s.now().Unix(), hex.EncodeToString(sum[:])[:8])
	path, err := s.files.Save(name, data)
	if err != nil {
		return err
	}
	siteID := site.ID
	_, err = s.ingest.IngestPDF(ctx, models.SourceScrapePDF, &siteID, path, models.DocumentPublic)
	return err
}

func (s *ScraperService) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", target, err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", target, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", target, s.maxBytes)
	}
	return body, nil
}

func (s *ScraperService) siteError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "website not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// VisibleText returns the page text without script, style and noscript
// content, with text nodes joined by spaces and whitespace collapsed.
func VisibleText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, node *goquery.Selection) {
			switch goquery.NodeName(node) {
			case "#text":
				parts = append(parts, node.Text())
			case "#comment":
			default:
				walk(node)
			}
		})
	}
	walk(doc.Selection)
	return textnorm.Collapse(strings.Join(parts, " "))
}

// PDFLinks returns absolute URLs of anchors whose href ends in .pdf.
func PDFLinks(base string, doc *goquery.Document) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.HasSuffix(strings.ToLower(href), ".pdf") {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		links = append(links, baseURL.ResolveReference(ref).String())
	})
	return links
}
