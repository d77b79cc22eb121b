// Package validation はリクエストボディのバリデーションを提供する。
// リクエスト形状ごとに型付きのバリデータを定義し、
// フィールド単位のエラーメッセージを一貫させる。
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/hitoshi/noteman/internal/model"
)

const (
	nameMinLen    = 2
	nameMaxLen    = 50
	titleMaxLen   = 100
	contentMaxLen = 1000
	minAge        = 13
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	dobRe   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	otpRe   = regexp.MustCompile(`^\d{6}$`)
)

// RegisterRequest はPOST /auth/registerのリクエストボディ。
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
}

// EmailRequest はPOST /auth/send-otpおよびPOST /auth/loginのリクエストボディ。
type EmailRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest はPOST /auth/verify-otpのリクエストボディ。
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// CreateNoteRequest はPOST /notesのリクエストボディ。
type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ValidateRegister は登録リクエストを検証し、メールアドレスを正規化する。
func ValidateRegister(req *RegisterRequest) []model.FieldError {
	var details []model.FieldError

	details = append(details, validateName(req.Name)...)

	email, emailErrs := normalizeEmail(req.Email)
	req.Email = email
	details = append(details, emailErrs...)

	details = append(details, validateDateOfBirth(req.DateOfBirth)...)

	return details
}

// ValidateEmail はメールアドレスのみのリクエストを検証し、正規化する。
func ValidateEmail(req *EmailRequest) []model.FieldError {
	email, errs := normalizeEmail(req.Email)
	req.Email = email
	return errs
}

// ValidateVerifyOTP はOTP検証リクエストを検証し、メールアドレスを正規化する。
// OTPコード自体は正規化しない（保存コードとの厳密一致で比較される）。
func ValidateVerifyOTP(req *VerifyOTPRequest) []model.FieldError {
	var details []model.FieldError

	email, emailErrs := normalizeEmail(req.Email)
	req.Email = email
	details = append(details, emailErrs...)

	if !otpRe.MatchString(req.OTP) {
		details = append(details, model.FieldError{
			Field:   "otp",
			Message: "OTPは6桁の数字で入力してください。",
		})
	}

	return details
}

// ValidateCreateNote はメモ作成リクエストを検証し、前後の空白を除去する。
func ValidateCreateNote(req *CreateNoteRequest) []model.FieldError {
	var details []model.FieldError

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		details = append(details, model.FieldError{
			Field:   "title",
			Message: "タイトルを入力してください。",
		})
	} else if len([]rune(req.Title)) > titleMaxLen {
		details = append(details, model.FieldError{
			Field:   "title",
			Message: "タイトルは100文字以内で入力してください。",
		})
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		details = append(details, model.FieldError{
			Field:   "content",
			Message: "本文を入力してください。",
		})
	} else if len([]rune(req.Content)) > contentMaxLen {
		details = append(details, model.FieldError{
			Field:   "content",
			Message: "本文は1000文字以内で入力してください。",
		})
	}

	return details
}

// validateName は表示名を検証する。2〜50文字、英字と空白のみ。
func validateName(name string) []model.FieldError {
	if len([]rune(name)) < nameMinLen {
		return []model.FieldError{{
			Field:   "name",
			Message: "名前は2文字以上で入力してください。",
		}}
	}
	if len([]rune(name)) > nameMaxLen {
		return []model.FieldError{{
			Field:   "name",
			Message: "名前は50文字以内で入力してください。",
		}}
	}
	if !nameRe.MatchString(name) {
		return []model.FieldError{{
			Field:   "name",
			Message: "名前には英字と空白のみ使用できます。",
		}}
	}
	return nil
}

// normalizeEmail はメールアドレスを小文字化・トリムして検証する。
func normalizeEmail(email string) (string, []model.FieldError) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(normalized) {
		return normalized, []model.FieldError{{
			Field:   "email",
			Message: "有効なメールアドレスを入力してください。",
		}}
	}
	return normalized, nil
}

// validateDateOfBirth は生年月日を検証する。
// DD/MM/YYYY形式で、実在する日付かつ13歳以上であること。
func validateDateOfBirth(dob string) []model.FieldError {
	if !dobRe.MatchString(dob) {
		return []model.FieldError{{
			Field:   "dateOfBirth",
			Message: "生年月日はDD/MM/YYYY形式で入力してください。",
		}}
	}

	birth, err := time.Parse("02/01/2006", dob)
	if err != nil {
		return []model.FieldError{{
			Field:   "dateOfBirth",
			Message: "生年月日が実在する日付ではありません。",
		}}
	}

	if ageAt(birth, time.Now()) < minAge {
		return []model.FieldError{{
			Field:   "dateOfBirth",
			Message: "13歳以上である必要があります。",
		}}
	}

	return nil
}

// ageAt はbirthからnow時点での満年齢を計算する。
func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	// 今年の誕生日がまだ来ていない場合は1引く
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}
