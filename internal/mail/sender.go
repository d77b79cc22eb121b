// Package mail はOTPメールの送信機能を提供する。
// SMTPによる単一トランスポートのみをサポートする。
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Sender はOTPメール送信のインターフェース。
// 送信失敗はそのまま呼び出し元に伝播する（リトライしない）。
type Sender interface {
	// SendOTP は宛先にOTPコードを記載したメールを送信する。
	SendOTP(ctx context.Context, to, code, subject string) error
}

// Config はSMTP接続の設定。
// Usernameが空の場合は認証なしで送信する（ローカル開発用）。
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender はnet/smtpを使用したSenderの実装。
type SMTPSender struct {
	config Config
	logger *slog.Logger

	// sendFn はテスト用に差し替え可能な送信関数。
	sendFn func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender はSMTPSenderを生成する。
func NewSMTPSender(config Config, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{
		config: config,
		logger: logger,
		sendFn: smtp.SendMail,
	}
}

// SendOTP は宛先にOTPコードを記載したメールを送信する。
// 本文は固定フォーマット: "Your OTP is: <code>. It will expire in 10 minutes."
func (s *SMTPSender) SendOTP(ctx context.Context, to, code, subject string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	msg := buildMessage(s.config.From, to, subject, otpBody(code))

	if err := s.sendFn(addr, auth, s.config.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send OTP mail: %w", err)
	}

	s.logger.Info("otp mail sent",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}

// otpBody はOTPメールの本文を生成する。
func otpBody(code string) string {
	return fmt.Sprintf("Your OTP is: %s. It will expire in 10 minutes.", code)
}

// buildMessage はRFC 5322形式のメッセージを組み立てる。
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")
	return []byte(b.String())
}

// compile-time interface check
var _ Sender = (*SMTPSender)(nil)
