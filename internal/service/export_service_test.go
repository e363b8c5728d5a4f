package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/storage"
)

func newExportServiceForTest(t *testing.T) (*ExportService, *mockLogRepo, *mockScraperRepo) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	logs := &mockLogRepo{}
	scrapes := &mockScraperRepo{}
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(NewLogService(logs, zap.NewNop()), scrapes, store, signer, nil, zap.NewNop(), cfg)
	return svc, logs, scrapes
}

func TestExportSystemLogsCSV(t *testing.T) {
	svc, logs, _ := newExportServiceForTest(t)
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	logs.system = []models.SystemLog{
		{Module: models.LogModuleAuth, Message: "login failed: user not found login_id=x", CreatedAt: at},
		{Module: models.LogModuleEmail, Message: "bulk send error: timeout", CreatedAt: at},
	}

	result, err := svc.Generate(context.Background(), dto.ExportRequest{Dataset: ExportSystemLogs, Format: "csv", Module: models.LogModuleAuth})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/exports/"))
	assert.True(t, strings.HasSuffix(result.FileName, ".csv"))

	dl, err := svc.Open(result.Token)
	require.NoError(t, err)
	defer dl.File.Close()
	assert.Equal(t, "text/csv", dl.ContentType)
	body, err := io.ReadAll(dl.File)
	require.NoError(t, err)
	assert.Equal(t, "Time,Module,Message\n2026-03-01 09:30:00,auth,login failed: user not found login_id=x\n", string(body))
}

func TestExportScrapeLogsPDF(t *testing.T) {
	svc, _, scrapes := newExportServiceForTest(t)
	site := "https://college.example/news"
	scrapes.logs = []models.ScrapeLog{{WebsiteID: "1", WebsiteURL: &site, Status: models.ScrapeSuccess, ExtractedTextLength: 120, PDFLinksFound: 2, ScrapedAt: time.Now()}}

	result, err := svc.Generate(context.Background(), dto.ExportRequest{Dataset: ExportScrapeLogs, Format: "pdf"})
	require.NoError(t, err)

	dl, err := svc.Open(result.Token)
	require.NoError(t, err)
	defer dl.File.Close()
	assert.Equal(t, "application/pdf", dl.ContentType)
	head := make([]byte, 4)
	_, err = io.ReadFull(dl.File, head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(head))
}

func TestExportRejectsBadRequests(t *testing.T) {
	svc, _, _ := newExportServiceForTest(t)

	_, err := svc.Generate(context.Background(), dto.ExportRequest{Dataset: "users", Format: "csv"})
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)

	_, err = svc.Open("not.a.valid.token")
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)
}
