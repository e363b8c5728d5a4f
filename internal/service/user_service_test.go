package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

func newUserFixture() (*UserService, *mockUserRepo, *mockLogRepo) {
	repo := newMockUserRepo(
		&models.User{ID: "admin-1", LoginID: "admin", Role: models.RoleAdmin, IsActive: true},
		&models.User{ID: "stu-1", LoginID: "0827CS211001", Role: models.RoleStudent, IsActive: true},
	)
	logs := &mockLogRepo{}
	return NewUserService(repo, nil, NewLogService(logs, zap.NewNop()), nil, zap.NewNop()), repo, logs
}

func TestCreateModeratorValidation(t *testing.T) {
	svc, repo, _ := newUserFixture()
	ctx := context.Background()

	_, err := svc.CreateModerator(ctx, models.CreateModeratorRequest{LoginID: "mod"})
	assert.Equal(t, "All fields are required", appErrors.FromError(err).Message)

	req := models.CreateModeratorRequest{LoginID: "mod", SignName: "Mod", Department: "CSE", Email: "mod", Password: "pw"}
	_, err = svc.CreateModerator(ctx, req)
	assert.Equal(t, "Valid email is required", appErrors.FromError(err).Message)

	req.Email = "mod@example.edu"
	info, err := svc.CreateModerator(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, info.Role)
	assert.Equal(t, "CSE", *repo.users[info.ID].Department)

	_, err = svc.CreateModerator(ctx, req)
	conflict := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.Equal(t, "Login ID already exists", conflict.Message)
}

func TestSetActiveLogsAndProtectsAdmin(t *testing.T) {
	svc, repo, logs := newUserFixture()
	ctx := context.Background()

	_, err := svc.SetActive(ctx, "admin-1", false)
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)
	assert.True(t, repo.users["admin-1"].IsActive)

	user, err := svc.SetActive(ctx, "stu-1", false)
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	_, err = svc.SetActive(ctx, "stu-1", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"user deactivate: 0827CS211001", "user activate: 0827CS211001"}, logs.messages(models.LogModuleAdmin))
}

func TestDeleteUserReassignsToAdmin(t *testing.T) {
	svc, repo, logs := newUserFixture()

	require.NoError(t, svc.Delete(context.Background(), "stu-1"))
	assert.Equal(t, "admin-1", repo.reassignedTo)
	assert.NotContains(t, repo.users, "stu-1")
	assert.Equal(t, []string{"user delete: 0827CS211001"}, logs.messages(models.LogModuleAdmin))

	err := svc.Delete(context.Background(), "admin-1")
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)
	err = svc.Delete(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestPurgeNonAdmins(t *testing.T) {
	svc, repo, logs := newUserFixture()

	result, err := svc.PurgeNonAdmins(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.DeletedUsers)
	assert.Len(t, repo.users, 1)
	assert.Equal(t, []string{"purge non-admins notices=0 faq_links=0 email_logs=0 users=1"}, logs.messages(models.LogModuleAdmin))
}

func TestListUsersByRole(t *testing.T) {
	svc, repo, _ := newUserFixture()

	users, err := svc.List(context.Background(), models.RoleStudent, " 0827 ")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "0827", repo.lastFilter.Search)

	_, err = svc.List(context.Background(), models.RoleGuest, "")
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}
