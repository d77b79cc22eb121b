// Package auth はメールOTPによる認証フローとセッショントークンの発行を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/noteman/internal/mail"
	"github.com/hitoshi/noteman/internal/model"
	"github.com/hitoshi/noteman/internal/repository"
)

// メール件名。発行の文脈（登録/ログイン）を区別する。
const (
	subjectRegister = "Verify your email - OTP"
	subjectLogin    = "Login OTP"
)

// Metrics は認証サービスが記録するメトリクスのインターフェース。
type Metrics interface {
	RecordOTPIssued()
	RecordOTPVerifySuccess()
	RecordOTPVerifyFailure(reason string)
	RecordMailSent()
	RecordMailFailure()
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	JWTSecret []byte        // トークン署名鍵
	TokenTTL  time.Duration // セッショントークンの有効期間
	OTPTTL    time.Duration // OTPコードの有効期間
}

// AuthResult は認証成功時のレスポンス。
// トークンと公開プロジェクションのみを含む。
type AuthResult struct {
	Token string
	User  model.PublicUser
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	users   repository.UserRepository
	mailer  mail.Sender
	metrics Metrics
	config  ServiceConfig

	// now はテスト用に差し替え可能な現在時刻関数。
	now func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	users repository.UserRepository,
	mailer mail.Sender,
	metrics Metrics,
	config ServiceConfig,
) *Service {
	return &Service{
		users:   users,
		mailer:  mailer,
		metrics: metrics,
		config:  config,
		now:     time.Now,
	}
}

// Register は新規ユーザーを未確認状態で作成し、確認用OTPを発行する。
// メールアドレスが登録済みの場合はUSER_EXISTSエラーを返す。
func (s *Service) Register(ctx context.Context, name, email, dateOfBirth string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return model.NewUserExistsError()
	}

	code, err := GenerateOTPCode()
	if err != nil {
		return err
	}

	now := s.now()
	expiry := now.Add(s.config.OTPTTL)
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		DateOfBirth:  dateOfBirth,
		Verified:     false,
		OTPCode:      &code,
		OTPExpiresAt: &expiry,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	s.metrics.RecordOTPIssued()

	if err := s.deliverOTP(ctx, email, code, subjectRegister); err != nil {
		return err
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", email),
	)
	return nil
}

// SendLoginOTP は既存ユーザーにログイン用OTPを発行する。
// 未消費の既存コードは上書きされ、永久に無効になる。
// ユーザーが存在しない場合はUSER_NOT_FOUNDエラーを返す。
func (s *Service) SendLoginOTP(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	code, err := GenerateOTPCode()
	if err != nil {
		return err
	}

	expiry := s.now().Add(s.config.OTPTTL)
	if err := s.users.UpdateOTP(ctx, user.ID, code, expiry); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}
	s.metrics.RecordOTPIssued()

	if err := s.deliverOTP(ctx, email, code, subjectLogin); err != nil {
		return err
	}

	slog.Info("login otp issued",
		slog.String("user_id", user.ID),
		slog.String("email", email),
	)
	return nil
}

// VerifyOTP は送信されたコードを検証し、セッショントークンを発行する。
//
// 状態遷移: 検証成功でコードと有効期限をクリアし（単回使用）、
// verifiedをtrueにする（既にtrueの場合も冪等）。
// 検証失敗では状態を変更しない（コードは期限内なら再送信可能なまま）。
//
// 判定順序は「ユーザー不在 → コード不一致 → 期限切れ」で、
// 消費済み（保存コードなし）の再送信はコード不一致として扱われる。
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		s.metrics.RecordOTPVerifyFailure("user_not_found")
		return nil, model.NewUserNotFoundError()
	}

	// 正規化なしの厳密一致。保存コードが無い場合も不一致になる。
	if user.OTPCode == nil || *user.OTPCode != code {
		s.metrics.RecordOTPVerifyFailure("mismatch")
		return nil, model.NewInvalidOTPError()
	}

	if user.OTPExpiresAt != nil && s.now().After(*user.OTPExpiresAt) {
		s.metrics.RecordOTPVerifyFailure("expired")
		return nil, model.NewOTPExpiredError()
	}

	if err := s.users.ConsumeOTP(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to consume OTP: %w", err)
	}
	s.metrics.RecordOTPVerifySuccess()

	result, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}

	slog.Info("otp verified",
		slog.String("user_id", user.ID),
		slog.String("email", email),
	)
	return result, nil
}

// Login は確認済みユーザーに新しいセッショントークンを発行する。
// OTPは発行しない。未登録・未確認の場合はエラーを返す。
func (s *Service) Login(ctx context.Context, email string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	if !user.Verified {
		return nil, model.NewEmailNotVerifiedError()
	}

	result, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", email),
	)
	return result, nil
}

// deliverOTP はOTPメールを送信し、結果をメトリクスに記録する。
// 送信失敗はリクエスト失敗としてそのまま伝播する。
func (s *Service) deliverOTP(ctx context.Context, email, code, subject string) error {
	if err := s.mailer.SendOTP(ctx, email, code, subject); err != nil {
		s.metrics.RecordMailFailure()
		return fmt.Errorf("failed to deliver OTP: %w", err)
	}
	s.metrics.RecordMailSent()
	return nil
}

// issueSession はユーザーに対するセッショントークンと公開情報を生成する。
func (s *Service) issueSession(user *model.User) (*AuthResult, error) {
	token, err := GenerateToken(user.ID, user.Email, s.config.JWTSecret, s.config.TokenTTL, s.now())
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token: token,
		User:  user.Public(),
	}, nil
}
