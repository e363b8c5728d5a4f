package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-assistant-api/internal/dto"
	"github.com/noah-isme/campus-assistant-api/internal/models"
	"github.com/noah-isme/campus-assistant-api/internal/service"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

type fakeNoticeSrv struct {
	lastViewer   models.Viewer
	lastQuery    service.NoticeListQuery
	lastRequest  dto.NoticeRequest
	lastID       string
	sendEmail    bool
	uploadName   string
	uploadBody   string
	getErr       error
	notices      []models.Notice
	publishReply *dto.PublishNoticeResponse
}

func (f *fakeNoticeSrv) Create(_ context.Context, viewer models.Viewer, req dto.NoticeRequest) (*models.Notice, error) {
	f.lastViewer, f.lastRequest = viewer, req
	return &models.Notice{ID: "n1", Title: req.Title}, nil
}

func (f *fakeNoticeSrv) Update(_ context.Context, viewer models.Viewer, id string, req dto.NoticeRequest) (*models.Notice, error) {
	f.lastViewer, f.lastID, f.lastRequest = viewer, id, req
	return &models.Notice{ID: id, Title: req.Title}, nil
}

func (f *fakeNoticeSrv) AttachFile(_ context.Context, _ models.Viewer, noticeID, originalName string, body io.Reader) (*models.NoticeFile, error) {
	data, _ := io.ReadAll(body)
	f.lastID, f.uploadName, f.uploadBody = noticeID, originalName, string(data)
	return &models.NoticeFile{ID: "file-1", NoticeID: noticeID, OriginalName: originalName}, nil
}

func (f *fakeNoticeSrv) DeleteFile(_ context.Context, _ models.Viewer, noticeID, fileID string) error {
	f.lastID = noticeID + "/" + fileID
	return nil
}

func (f *fakeNoticeSrv) Publish(_ context.Context, _ models.Viewer, id string, sendEmail bool) (*dto.PublishNoticeResponse, error) {
	f.lastID, f.sendEmail = id, sendEmail
	if f.publishReply != nil {
		return f.publishReply, nil
	}
	return &dto.PublishNoticeResponse{NoticeID: id, Status: string(models.NoticeStatusPublished)}, nil
}

func (f *fakeNoticeSrv) Delete(_ context.Context, _ models.Viewer, id string) error {
	f.lastID = id
	return nil
}

func (f *fakeNoticeSrv) Get(_ context.Context, viewer models.Viewer, id string) (*models.Notice, error) {
	f.lastViewer = viewer
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.Notice{ID: id}, nil
}

func (f *fakeNoticeSrv) List(_ context.Context, viewer models.Viewer, q service.NoticeListQuery) ([]models.Notice, *models.Pagination, error) {
	f.lastViewer, f.lastQuery = viewer, q
	return f.notices, &models.Pagination{Page: q.Page, PageSize: q.PageSize, TotalCount: len(f.notices)}, nil
}

func (f *fakeNoticeSrv) Categories(context.Context) ([]models.NoticeCategory, error) {
	return []models.NoticeCategory{{ID: "c1", Name: "Exams"}}, nil
}

func TestNoticeHandlerListParsesFilters(t *testing.T) {
	srv := &fakeNoticeSrv{notices: []models.Notice{{ID: "n1"}, {ID: "n2"}}}
	handler := NewNoticeHandler(srv)
	c, rec := newGinContext(http.MethodGet, "/notices?category=Exams&today=true&q=fee&page=2&page_size=5", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleGuest, srv.lastViewer.Role)
	assert.Equal(t, service.NoticeListQuery{Category: "Exams", Today: true, Search: "fee", Page: 2, PageSize: 5}, srv.lastQuery)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 2, envelope.Pagination.TotalCount)
}

func TestNoticeHandlerGetHiddenNotice(t *testing.T) {
	srv := &fakeNoticeSrv{getErr: appErrors.Clone(appErrors.ErrNotFound, "notice not found")}
	handler := NewNoticeHandler(srv)
	c, rec := newGinContext(http.MethodGet, "/notices/n9", nil)
	c.Params = gin.Params{{Key: "id", Value: "n9"}}
	asViewer(c, testStudent)

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "s1", srv.lastViewer.UserID)
}

func TestNoticeHandlerCreateAndUpdate(t *testing.T) {
	srv := &fakeNoticeSrv{}
	handler := NewNoticeHandler(srv)

	c, rec := newGinContext(http.MethodPost, "/notices", dto.NoticeRequest{Title: "Exam schedule", Visibility: "public"})
	asViewer(c, testModerator)
	handler.Create(c)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Exam schedule", srv.lastRequest.Title)
	assert.Equal(t, "m1", srv.lastViewer.UserID)

	c, rec = newGinContext(http.MethodPut, "/notices/n1", dto.NoticeRequest{Title: "Revised", Visibility: "student"})
	c.Params = gin.Params{{Key: "id", Value: "n1"}}
	asViewer(c, testModerator)
	handler.Update(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "n1", srv.lastID)
}

func TestNoticeHandlerUploadFile(t *testing.T) {
	srv := &fakeNoticeSrv{}
	handler := NewNoticeHandler(srv)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "timetable.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/notices/n1/files", &body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Params = gin.Params{{Key: "id", Value: "n1"}}
	asViewer(c, testModerator)

	handler.UploadFile(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "n1", srv.lastID)
	assert.Equal(t, "timetable.pdf", srv.uploadName)
	assert.Equal(t, "%PDF-1.4", srv.uploadBody)
}

func TestNoticeHandlerUploadRequiresFile(t *testing.T) {
	handler := NewNoticeHandler(&fakeNoticeSrv{})
	c, rec := newGinContext(http.MethodPost, "/notices/n1/files", nil)
	c.Params = gin.Params{{Key: "id", Value: "n1"}}

	handler.UploadFile(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNoticeHandlerPublishReadsSendEmail(t *testing.T) {
	srv := &fakeNoticeSrv{publishReply: &dto.PublishNoticeResponse{NoticeID: "n1", Status: "published", Attempted: 3, Succeeded: 3}}
	handler := NewNoticeHandler(srv)

	c, rec := newGinContext(http.MethodPost, "/notices/n1/publish", dto.PublishNoticeRequest{SendEmail: true})
	c.Params = gin.Params{{Key: "id", Value: "n1"}}
	handler.Publish(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.sendEmail)
	var res dto.PublishNoticeResponse
	decodeData(t, rec, &res)
	assert.Equal(t, 3, res.Succeeded)

	c, rec = newGinContext(http.MethodPost, "/notices/n1/publish", nil)
	c.Params = gin.Params{{Key: "id", Value: "n1"}}
	handler.Publish(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, srv.sendEmail)
}

func TestNoticeHandlerPublishSendEmailQuery(t *testing.T) {
	srv := &fakeNoticeSrv{}
	handler := NewNoticeHandler(srv)

	c, rec := newGinContext(http.MethodPost, "/notices/n1/publish?send_email=yes", nil)
	c.Params = gin.Params{{Key: "id", Value: "n1"}}
	handler.Publish(c)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "send_email must be true or false", env.Error.Message)
	assert.Empty(t, srv.lastID)

	c, rec = newGinContext(http.MethodPost, "/notices/n1/publish?send_email=1", nil)
	c.Params = gin.Params{{Key: "id", Value: "n1"}}
	handler.Publish(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.sendEmail)
}

func TestNoticeHandlerDeletes(t *testing.T) {
	srv := &fakeNoticeSrv{}
	handler := NewNoticeHandler(srv)

	c, _ := newGinContext(http.MethodDelete, "/notices/n1/files/f1", nil)
	c.Params = gin.Params{{Key: "id", Value: "n1"}, {Key: "fileId", Value: "f1"}}
	handler.DeleteFile(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "n1/f1", srv.lastID)

	c, _ = newGinContext(http.MethodDelete, "/notices/n1", nil)
	c.Params = gin.Params{{Key: "id", Value: "n1"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "n1", srv.lastID)
}
