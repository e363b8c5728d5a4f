package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

type fakeAuthSrv struct {
	loginReq  models.LoginRequest
	loginResp *models.LoginResponse
	loginErr  error
	register  *models.UserInfo
	regErr    error
	me        *models.UserInfo
}

func (f *fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.loginReq = req
	return f.loginResp, f.loginErr
}

func (f *fakeAuthSrv) RegisterStudent(context.Context, models.RegisterRequest) (*models.UserInfo, error) {
	return f.register, f.regErr
}

func (f *fakeAuthSrv) Me(_ context.Context, viewer models.Viewer) (*models.UserInfo, error) {
	if f.me == nil {
		return &models.UserInfo{ID: viewer.UserID, LoginID: viewer.LoginID, Role: viewer.Role}, nil
	}
	return f.me, nil
}

func TestAuthHandlerLoginPassesClientIP(t *testing.T) {
	srv := &fakeAuthSrv{loginResp: &models.LoginResponse{AccessToken: "tok", User: models.UserInfo{LoginID: "CS1"}}}
	handler := NewAuthHandler(srv)
	c, rec := newGinContext(http.MethodPost, "/auth/login", map[string]string{"login_id": "CS1", "password": "secret"})
	c.Request.RemoteAddr = "10.1.2.3:5555"

	handler.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CS1", srv.loginReq.LoginID)
	assert.Equal(t, "10.1.2.3", srv.loginReq.IP)
	var res models.LoginResponse
	decodeData(t, rec, &res)
	assert.Equal(t, "tok", res.AccessToken)
}

func TestAuthHandlerLoginDeactivated(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{loginErr: appErrors.ErrInactiveAccount})
	c, rec := newGinContext(http.MethodPost, "/auth/login", map[string]string{"login_id": "CS1", "password": "secret"})

	handler.Login(c)

	require.Equal(t, http.StatusForbidden, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Account deactivated", envelope.Error.Message)
}

func TestAuthHandlerLoginRejectsMalformedBody(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{})
	c, rec := newGinContext(http.MethodPost, "/auth/login", []byte("{"))

	handler.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerRegisterConflict(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{regErr: appErrors.Clone(appErrors.ErrConflict, "Enrollment already registered")})
	c, rec := newGinContext(http.MethodPost, "/auth/register", models.RegisterRequest{SignName: "A", EnrollmentNo: "CS1"})

	handler.Register(c)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Enrollment already registered", decodeEnvelope(t, rec).Error.Message)
}

func TestAuthHandlerRegisterCreated(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{register: &models.UserInfo{ID: "u1", LoginID: "CS1", Role: models.RoleStudent}})
	c, rec := newGinContext(http.MethodPost, "/auth/register", models.RegisterRequest{SignName: "A", EnrollmentNo: "CS1"})

	handler.Register(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{})

	c, rec := newGinContext(http.MethodGet, "/auth/me", nil)
	handler.Me(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newGinContext(http.MethodGet, "/auth/me", nil)
	asViewer(c, testStudent)
	handler.Me(c)
	require.Equal(t, http.StatusOK, rec.Code)
	var info models.UserInfo
	decodeData(t, rec, &info)
	assert.Equal(t, "CS2023001", info.LoginID)
}
