package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

type authUserRepository interface {
	FindByLoginID(ctx context.Context, loginID string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindFirstAdmin(ctx context.Context) (*models.User, error)
	ExistsLoginOrEnrollment(ctx context.Context, loginID, enrollmentNo string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	Create(ctx context.Context, user *models.User) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService provides authentication use cases.
type AuthService struct {
	repo      authUserRepository
	logs      *LogService
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, logs *LogService, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, logs: logs, validator: validate, logger: logger, config: config}
}

// RegisterStudent creates an active student whose login id is the enrollment number.
func (s *AuthService) RegisterStudent(ctx context.Context, req models.RegisterRequest) (*models.UserInfo, error) {
	req.EnrollmentNo = strings.TrimSpace(req.EnrollmentNo)
	req.SignName = strings.TrimSpace(req.SignName)
	req.Department = strings.TrimSpace(req.Department)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "All fields are required")
	}
	if !strings.Contains(req.Email, "@") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Valid email is required")
	}

	exists, err := s.repo.ExistsLoginOrEnrollment(ctx, req.EnrollmentNo, req.EnrollmentNo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Enrollment already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	year := req.Year
	user := &models.User{
		LoginID:      req.EnrollmentNo,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		SignName:     &req.SignName,
		Email:        &req.Email,
		Department:   &req.Department,
		Year:         &year,
		EnrollmentNo: &req.EnrollmentNo,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register student")
	}
	info := userInfo(user)
	return &info, nil
}

// Login authenticates a user and returns an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.LoginID = strings.TrimSpace(req.LoginID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByLoginID(ctx, req.LoginID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logs.Record(ctx, models.LogModuleAuth, fmt.Sprintf("login failed: user not found login_id=%s", req.LoginID))
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid credentials")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if !user.IsActive {
		s.logs.Record(ctx, models.LogModuleAuth, fmt.Sprintf("login failed: user deactivated login_id=%s", req.LoginID))
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "Account deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logs.Record(ctx, models.LogModuleAuth, fmt.Sprintf("login failed: bad password login_id=%s ip=%s", req.LoginID, req.IP))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid credentials")
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}

	return &models.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    time.Now().UTC(),
		User:        userInfo(user),
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

// ResolveViewer validates the token and reloads the user so accounts
// deactivated or deleted after issuance are rejected.
func (s *AuthService) ResolveViewer(ctx context.Context, tokenString string) (models.Viewer, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return models.GuestViewer(), err
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.GuestViewer(), appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
		}
		return models.GuestViewer(), appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if !user.IsActive {
		return models.GuestViewer(), appErrors.Clone(appErrors.ErrInactiveAccount, "Account deactivated")
	}
	return user.Viewer(), nil
}

// Me returns the profile of the viewer.
func (s *AuthService) Me(ctx context.Context, viewer models.Viewer) (*models.UserInfo, error) {
	user, err := s.repo.FindByID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	info := userInfo(user)
	return &info, nil
}

// EnsureAdmin provisions the admin account when none exists yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, loginID, password string) (*models.User, error) {
	admin, err := s.repo.FindFirstAdmin(ctx)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if loginID == "" || password == "" {
		return nil, errors.New("admin credentials are not configured")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	admin = &models.User{
		LoginID:      loginID,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info("admin account provisioned", zap.String("login_id", loginID))
	return admin, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID:     user.ID,
		LoginID:    user.LoginID,
		Role:       user.Role,
		Department: user.Department,
		Year:       user.Year,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}

func userInfo(u *models.User) models.UserInfo {
	return models.UserInfo{
		ID:         u.ID,
		LoginID:    u.LoginID,
		Role:       u.Role,
		SignName:   u.SignName,
		Email:      u.Email,
		Department: u.Department,
		Year:       u.Year,
	}
}
