package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/gatehouse/gatehouse/internal/apperror"
)

// mysqlDuplicateEntry is the MariaDB error number for a unique-key violation.
const mysqlDuplicateEntry = 1062

// UserRepository defines the data access contract for user records.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindBySessionID(ctx context.Context, sessionID string) (*User, error)

	// UpdateSessionID sets (or, with nil, clears) the user's single active
	// session identifier.
	UpdateSessionID(ctx context.Context, userID string, sessionID *string) error

	// SetResetToken replaces the user's reset token. Any previously issued
	// token for the user stops working.
	SetResetToken(ctx context.Context, userID, token string) error

	// ConsumePasswordReset sets the new password hash and clears the reset
	// token in one atomic statement. Returns false if no user holds the
	// token -- including a token that was already consumed.
	ConsumePasswordReset(ctx context.Context, resetToken, passwordHash string) (bool, error)
}

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, session_id, reset_token, created_at`

// Create inserts a new user row. A unique-key violation on email is mapped
// to the duplicate-user domain error so concurrent registrations of the
// same address fail cleanly.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, email, password_hash, created_at)
	          VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return apperror.NewDuplicateUser()
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by identifier.
// Returns apperror.NotFound if no user exists with this id.
func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findBy(ctx, "id", id)
}

// FindByEmail retrieves a user by email address.
// Returns apperror.NotFound if no user exists with this email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findBy(ctx, "email", email)
}

// FindBySessionID retrieves the user holding the given session identifier.
// Only meaningful with the database session backend.
func (r *userRepository) FindBySessionID(ctx context.Context, sessionID string) (*User, error) {
	return r.findBy(ctx, "session_id", sessionID)
}

// findBy runs the shared single-row lookup. The column name is always one
// of the fixed strings above, never caller input.
func (r *userRepository) findBy(ctx context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = ?`, userColumns, column)

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.SessionID,
		&user.ResetToken,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by %s: %w", column, err)
	}

	return user, nil
}

// UpdateSessionID sets or clears the session_id column for the given user.
func (r *userRepository) UpdateSessionID(ctx context.Context, userID string, sessionID *string) error {
	query := `UPDATE users SET session_id = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, sessionID, userID)
	if err != nil {
		return fmt.Errorf("updating session id: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 && sessionID != nil {
		// Clearing an unknown user's session is a no-op; issuing one is not.
		return apperror.NewNotFound("user not found")
	}

	return nil
}

// SetResetToken stores a fresh reset token on the user row.
func (r *userRepository) SetResetToken(ctx context.Context, userID, token string) error {
	query := `UPDATE users SET reset_token = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, token, userID)
	if err != nil {
		return fmt.Errorf("setting reset token: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("user not found")
	}

	return nil
}

// ConsumePasswordReset updates the password hash and clears the reset token
// as one statement, so the row can never end up with a new hash and a live
// token. Matching on reset_token also makes token consumption race-safe:
// of two concurrent calls with the same token, exactly one affects a row.
func (r *userRepository) ConsumePasswordReset(ctx context.Context, resetToken, passwordHash string) (bool, error) {
	query := `UPDATE users SET password_hash = ?, reset_token = NULL
	          WHERE reset_token = ?`

	result, err := r.db.ExecContext(ctx, query, passwordHash, resetToken)
	if err != nil {
		return false, fmt.Errorf("consuming reset token: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}

	return n > 0, nil
}
