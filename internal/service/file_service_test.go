package service

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
	"github.com/noah-isme/campus-assistant-api/pkg/storage"
)

type fileFixture struct {
	svc   *FileService
	repo  *mockNoticeRepo
	logs  *mockLogRepo
	store *storage.LocalStorage
}

func newFileFixture(t *testing.T) fileFixture {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := newMockNoticeRepo()
	logs := &mockLogRepo{}
	return fileFixture{
		svc:   NewFileService(repo, store, NewLogService(logs, zap.NewNop()), zap.NewNop()),
		repo:  repo,
		logs:  logs,
		store: store,
	}
}

func (f fileFixture) attach(t *testing.T, notice *models.Notice, path string) string {
	t.Helper()
	f.repo.notices[notice.ID] = notice
	file := &models.NoticeFile{NoticeID: notice.ID, OriginalName: "timetable.pdf", StoredPath: path, FileType: "pdf"}
	require.NoError(t, f.repo.AddFile(context.Background(), file))
	return file.ID
}

func TestResolvePublicFile(t *testing.T) {
	f := newFileFixture(t)
	path, err := f.store.Save("n1_1.pdf", []byte("%PDF"))
	require.NoError(t, err)
	id := f.attach(t, publishedNotice(models.VisibilityPublic, nil, nil), path)

	dl, err := f.svc.Resolve(context.Background(), models.GuestViewer(), DownloadRequest{FileID: id, Method: http.MethodGet, IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, path, dl.Path)
	assert.Equal(t, "timetable.pdf", dl.Name)
	assert.Empty(t, f.logs.system)
}

func TestResolveDenials(t *testing.T) {
	f := newFileFixture(t)
	ctx := context.Background()
	req := func(id string) DownloadRequest {
		return DownloadRequest{FileID: id, Method: http.MethodGet, IP: "10.0.0.1"}
	}

	_, err := f.svc.Resolve(ctx, models.GuestViewer(), req("nope"))
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	draft := publishedNotice(models.VisibilityPublic, nil, nil)
	draft.ID, draft.Status = "n-draft", models.NoticeStatusDraft
	draftFile := f.attach(t, draft, filepath.Join(f.store.Root(), "x.pdf"))
	_, err = f.svc.Resolve(ctx, models.GuestViewer(), req(draftFile))
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	restricted := publishedNotice(models.VisibilityRestricted, strPtr("ECE"), intPtr(1))
	restricted.ID = "n-restricted"
	path, err := f.store.Save("r.pdf", []byte("%PDF"))
	require.NoError(t, err)
	restrictedFile := f.attach(t, restricted, path)
	_, err = f.svc.Resolve(ctx, testModerator, req(restrictedFile))
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)

	// department and year are not re-checked at download time
	_, err = f.svc.Resolve(ctx, studentViewer("CSE", 3), req(restrictedFile))
	assert.NoError(t, err)

	outside := publishedNotice(models.VisibilityPublic, nil, nil)
	outside.ID = "n-outside"
	escaped := f.attach(t, outside, filepath.Join(f.store.Root(), "..", "etc-passwd"))
	_, err = f.svc.Resolve(ctx, models.GuestViewer(), req(escaped))
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)

	gone := publishedNotice(models.VisibilityPublic, nil, nil)
	gone.ID = "n-gone"
	goneFile := f.attach(t, gone, filepath.Join(f.store.Root(), "deleted.pdf"))
	_, err = f.svc.Resolve(ctx, models.GuestViewer(), req(goneFile))
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)

	msgs := f.logs.messages(models.LogModuleFiles)
	require.Len(t, msgs, 5)
	assert.Equal(t, "not_found_or_unpublished file_id=nope user=guest role=guest method=GET ip=10.0.0.1", msgs[0])
	assert.Equal(t, "not_found_or_unpublished file_id="+draftFile+" notice_id=n-draft user=guest role=guest method=GET ip=10.0.0.1", msgs[1])
	assert.Equal(t, "forbidden_download file_id="+restrictedFile+" notice_id=n-restricted user=mod role=moderator method=GET ip=10.0.0.1", msgs[2])
	assert.Contains(t, msgs[3], "blocked_path_traversal file_id="+escaped)
	assert.Contains(t, msgs[4], "missing_file_on_disk file_id="+goneFile)

	_, statErr := os.Stat(filepath.Join(f.store.Root(), "deleted.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}
