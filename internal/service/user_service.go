package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/campus-assistant-api/internal/models"
	appErrors "github.com/noah-isme/campus-assistant-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindFirstAdmin(ctx context.Context) (*models.User, error)
	ExistsLoginOrEnrollment(ctx context.Context, loginID, enrollmentNo string) (bool, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id string, active bool) error
	DeleteWithReassign(ctx context.Context, id, adminID string) error
	PurgeNonAdmins(ctx context.Context, adminID string) (models.PurgeResult, error)
}

// UserService handles admin user management workflows.
type UserService struct {
	repo      userRepository
	cache     *CacheService
	logs      *LogService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, cache *CacheService, logs *LogService, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, cache: cache, logs: logs, validator: validate, logger: logger}
}

// List returns users of one role matching the search text.
func (s *UserService) List(ctx context.Context, role models.UserRole, search string) ([]models.User, error) {
	filter := models.UserFilter{Search: strings.TrimSpace(search)}
	if role != "" {
		if !role.Persisted() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
		}
		filter.Role = &role
	}
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// CreateModerator provisions a moderator account.
func (s *UserService) CreateModerator(ctx context.Context, req models.CreateModeratorRequest) (*models.UserInfo, error) {
	loginID := strings.TrimSpace(req.LoginID)
	signName := strings.TrimSpace(req.SignName)
	department := strings.TrimSpace(req.Department)
	email := strings.TrimSpace(req.Email)
	if loginID == "" || signName == "" || department == "" || email == "" || req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "All fields are required")
	}
	if !strings.Contains(email, "@") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Valid email is required")
	}

	exists, err := s.repo.ExistsLoginOrEnrollment(ctx, loginID, loginID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check login id")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Login ID already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	user := &models.User{
		LoginID:      loginID,
		PasswordHash: string(hash),
		Role:         models.RoleModerator,
		SignName:     &signName,
		Email:        &email,
		Department:   &department,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create moderator")
	}
	s.logs.Record(ctx, models.LogModuleAdmin, fmt.Sprintf("moderator created: %s", loginID))
	s.invalidate(ctx)
	info := userInfo(user)
	return &info, nil
}

// SetActive toggles a non-admin account.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*models.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin && !active {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin account cannot be deactivated")
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}
	user.IsActive = active

	action := "deactivate"
	if active {
		action = "activate"
	}
	s.logs.Record(ctx, models.LogModuleAdmin, fmt.Sprintf("user %s: %s", action, user.LoginID))
	s.invalidate(ctx)
	return user, nil
}

// Delete permanently removes a non-admin user, handing their records to the admin.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "admin account cannot be deleted")
	}
	admin, err := s.admin(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteWithReassign(ctx, id, admin.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		s.logs.Record(ctx, models.LogModuleAdmin, fmt.Sprintf("user delete error: %s: %v", user.LoginID, err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.logs.Record(ctx, models.LogModuleAdmin, fmt.Sprintf("user delete: %s", user.LoginID))
	s.invalidate(ctx)
	return nil
}

// PurgeNonAdmins deletes every moderator and student in one transaction.
func (s *UserService) PurgeNonAdmins(ctx context.Context) (*models.PurgeResult, error) {
	admin, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.repo.PurgeNonAdmins(ctx, admin.ID)
	if err != nil {
		s.logs.Record(ctx, models.LogModuleAdmin, fmt.Sprintf("purge error: %v", err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to purge users")
	}
	s.logs.Event(ctx, models.LogModuleAdmin, "purge non-admins",
		"notices", result.ReassignedNotices,
		"faq_links", result.UpdatedFAQLinks,
		"email_logs", result.UpdatedEmailLogs,
		"users", result.DeletedUsers,
	)
	s.invalidate(ctx)
	return &result, nil
}

func (s *UserService) load(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

func (s *UserService) admin(ctx context.Context) (*models.User, error) {
	admin, err := s.repo.FindFirstAdmin(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "admin account missing")
	}
	return admin, nil
}

func (s *UserService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cacheKeyAdminDashboard); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
