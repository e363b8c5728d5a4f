package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-assistant-api/internal/models"
)

const userColumns = `id, login_id, password_hash, role, sign_name, email, department, year, enrollment_no, is_active, last_login, created_at, updated_at`

const nonAdminUsers = `SELECT id FROM users WHERE role <> 'ADMIN'`

// UserRepository provides database access for user management.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByLoginID returns a user by login id.
func (r *UserRepository) FindByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login_id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, loginID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by login id: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindFirstAdmin returns the oldest admin account.
func (r *UserRepository) FindFirstAdmin(ctx context.Context) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = 'ADMIN' ORDER BY created_at ASC LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &user, nil
}

// ExistsLoginOrEnrollment reports whether either identifier is taken.
func (r *UserRepository) ExistsLoginOrEnrollment(ctx context.Context, loginID, enrollmentNo string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE login_id = $1 OR enrollment_no = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, loginID, enrollmentNo); err != nil {
		return false, fmt.Errorf("check login id: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin updates the last_login timestamp for a user.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// List returns users matching the filter. Search matches login id, enrollment
// number and display name.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(login_id ILIKE $%d OR enrollment_no ILIKE $%d OR sign_name ILIKE $%d)", n, n, n))
		args = append(args, "%"+strings.TrimSpace(filter.Search)+"%")
	}

	query := fmt.Sprintf("SELECT %s FROM users WHERE %s ORDER BY created_at DESC", userColumns, strings.Join(conditions, " AND "))
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListActiveStudentRecipients returns active students with an email address,
// optionally narrowed to a department and year.
func (r *UserRepository) ListActiveStudentRecipients(ctx context.Context, department *string, year *int) ([]models.User, error) {
	conditions := []string{"role = 'STUDENT'", "is_active = TRUE", "email IS NOT NULL", "email <> ''"}
	var args []interface{}
	if department != nil {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, *department)
	}
	if year != nil {
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)+1))
		args = append(args, *year)
	}
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s ORDER BY login_id", userColumns, strings.Join(conditions, " AND "))
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	return users, nil
}

// CountByRole returns the number of users per stored role.
func (r *UserRepository) CountByRole(ctx context.Context) (map[models.UserRole]int, error) {
	const query = `SELECT role, COUNT(*) AS total FROM users GROUP BY role`
	var rows []struct {
		Role  models.UserRole `db:"role"`
		Total int             `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	counts := make(map[models.UserRole]int, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Total
	}
	return counts, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, login_id, password_hash, role, sign_name, email, department, year, enrollment_no, is_active, created_at, updated_at)
VALUES (:id, :login_id, :password_hash, :role, :sign_name, :email, :department, :year, :enrollment_no, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// SetActive toggles the is_active flag.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteWithReassign removes a non-admin user in one transaction. Authored
// notices and email logs move to adminID and FAQ links are cleared.
func (r *UserRepository) DeleteWithReassign(ctx context.Context, id, adminID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE notices SET created_by = $1 WHERE created_by = $2`, adminID, id); err != nil {
		return fmt.Errorf("reassign notices: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE faqs SET asked_by = NULL WHERE asked_by = $1`, id); err != nil {
		return fmt.Errorf("clear faq askers: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE faqs SET answered_by = NULL WHERE answered_by = $1`, id); err != nil {
		return fmt.Errorf("clear faq answerers: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE email_logs SET sent_by = $1 WHERE sent_by = $2`, adminID, id); err != nil {
		return fmt.Errorf("reassign email logs: %w", err)
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND role <> 'ADMIN'`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete user: %w", err)
	}
	return nil
}

// PurgeNonAdmins deletes every non-admin user in one transaction, moving
// their notices and email logs to adminID and clearing their FAQ links.
func (r *UserRepository) PurgeNonAdmins(ctx context.Context, adminID string) (result models.PurgeResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin purge: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `UPDATE notices SET created_by = $1 WHERE created_by IN (`+nonAdminUsers+`)`, adminID); err != nil {
		return result, fmt.Errorf("reassign notices: %w", err)
	}
	result.ReassignedNotices, _ = res.RowsAffected()

	const faqQuery = `UPDATE faqs SET
asked_by = CASE WHEN asked_by IN (` + nonAdminUsers + `) THEN NULL ELSE asked_by END,
answered_by = CASE WHEN answered_by IN (` + nonAdminUsers + `) THEN NULL ELSE answered_by END
WHERE asked_by IN (` + nonAdminUsers + `) OR answered_by IN (` + nonAdminUsers + `)`
	if res, err = tx.ExecContext(ctx, faqQuery); err != nil {
		return result, fmt.Errorf("clear faq links: %w", err)
	}
	result.UpdatedFAQLinks, _ = res.RowsAffected()

	if res, err = tx.ExecContext(ctx, `UPDATE email_logs SET sent_by = $1 WHERE sent_by IN (`+nonAdminUsers+`)`, adminID); err != nil {
		return result, fmt.Errorf("reassign email logs: %w", err)
	}
	result.UpdatedEmailLogs, _ = res.RowsAffected()

	if res, err = tx.ExecContext(ctx, `DELETE FROM users WHERE role <> 'ADMIN'`); err != nil {
		return result, fmt.Errorf("delete non-admin users: %w", err)
	}
	result.DeletedUsers, _ = res.RowsAffected()

	if err = tx.Commit(); err != nil {
		return result, fmt.Errorf("commit purge: %w", err)
	}
	return result, nil
}
