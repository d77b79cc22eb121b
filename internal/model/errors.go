// Package model はドメインモデルを定義する。
package model

import "fmt"

// FieldError はリクエストボディのフィールド単位のバリデーションエラーを表す。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// バリデーションエラーの場合はDetailsにフィールド単位の内訳を持つ。
type APIError struct {
	Code     string       // エラーコード
	Message  string       // エラーメッセージ
	Category string       // カテゴリ: auth, validation, note, system
	Action   string       // ユーザー向け対処方法
	Details  []FieldError // バリデーションエラーの内訳（任意）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeUserExists       = "USER_EXISTS"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeInvalidOTP       = "INVALID_OTP"
	ErrCodeOTPExpired       = "OTP_EXPIRED"
	ErrCodeEmailNotVerified = "EMAIL_NOT_VERIFIED"
	ErrCodeNoteNotFound     = "NOTE_NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInvalidToken     = "INVALID_TOKEN"
)

// NewValidationError はバリデーションエラーを生成する。
// Messageには先頭フィールドのメッセージを採用する。
func NewValidationError(details []FieldError) *APIError {
	message := "入力内容に誤りがあります。"
	if len(details) > 0 {
		message = details[0].Message
	}
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  message,
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
		Details:  details,
	}
}

// NewUserExistsError は登録済みメールアドレスでの再登録エラーを生成する。
func NewUserExistsError() *APIError {
	return &APIError{
		Code:     ErrCodeUserExists,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "ログイン画面からOTPを送信してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "メールアドレスを確認するか、新規登録を行ってください。",
	}
}

// NewInvalidOTPError はOTP不一致エラーを生成する。
// 消費済み（保存コードなし）のコードを再送信した場合もこのエラーになる。
func NewInvalidOTPError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidOTP,
		Message:  "OTPが正しくありません。",
		Category: "auth",
		Action:   "メールに記載された6桁のコードを確認してください。",
	}
}

// NewOTPExpiredError はOTP期限切れエラーを生成する。
func NewOTPExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeOTPExpired,
		Message:  "OTPの有効期限が切れています。",
		Category: "auth",
		Action:   "OTPを再送信して新しいコードで再度お試しください。",
	}
}

// NewEmailNotVerifiedError はメール未確認ユーザーのログインエラーを生成する。
func NewEmailNotVerifiedError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailNotVerified,
		Message:  "メールアドレスが確認されていません。",
		Category: "auth",
		Action:   "OTPを送信してメールアドレスの確認を完了してください。",
	}
}

// NewNoteNotFoundError はメモが見つからない場合のエラーを生成する。
// 他ユーザーのメモへのアクセスも存在しないメモと区別せずこのエラーを返す。
func NewNoteNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeNoteNotFound,
		Message:  "メモが見つかりません。",
		Category: "note",
		Action:   "メモの一覧を再読み込みしてください。",
	}
}

// NewUnauthorizedError はトークン未提示エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "アクセストークンが必要です。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewInvalidTokenError はトークン検証失敗エラーを生成する。
// 署名不正・期限切れ・形式不正のいずれもこのエラーに集約する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "トークンが無効です。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
