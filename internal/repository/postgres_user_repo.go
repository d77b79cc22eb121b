package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/noteman/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, email, name, date_of_birth, verified, otp_code, otp_expires_at, created_at, updated_at`

// scanUser は1行をmodel.Userに読み取る。
func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.DateOfBirth,
		&user.Verified, &user.OTPCode, &user.OTPExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail は正規化済みメールアドレスでユーザーを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// Create はユーザーを作成する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, date_of_birth, verified, otp_code, otp_expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Email, user.Name, user.DateOfBirth,
		user.Verified, user.OTPCode, user.OTPExpiresAt,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateOTP はユーザーのOTPコードと有効期限を上書きする。
// 単一のUPDATE文のため、並行発行時はlast-writer-winsとなる。
func (r *PostgresUserRepo) UpdateOTP(ctx context.Context, id, code string, expiresAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET otp_code = $2, otp_expires_at = $3, updated_at = now() WHERE id = $1`,
		id, code, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update OTP: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// ConsumeOTP はOTPコードと有効期限をクリアし、verifiedをtrueにする。
func (r *PostgresUserRepo) ConsumeOTP(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET otp_code = NULL, otp_expires_at = NULL, verified = TRUE, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to consume OTP: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
