// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/noteman/internal/auth"
	"github.com/hitoshi/noteman/internal/middleware"
	"github.com/hitoshi/noteman/internal/model"
	"github.com/hitoshi/noteman/internal/validation"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register は新規ユーザーを作成し、確認用OTPをメールで送信する。
	Register(ctx context.Context, name, email, dateOfBirth string) error
	// SendLoginOTP は既存ユーザーにログイン用OTPをメールで送信する。
	SendLoginOTP(ctx context.Context, email string) error
	// VerifyOTP はOTPを検証し、セッショントークンを発行する。
	VerifyOTP(ctx context.Context, email, code string) (*auth.AuthResult, error)
	// Login は確認済みユーザーにセッショントークンを発行する。
	Login(ctx context.Context, email string) (*auth.AuthResult, error)
}

// AuthHandler は認証のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// messageResponse はメッセージのみのAPIレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// authResponse はトークン発行時のAPIレスポンス。
type authResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

// Register は新規ユーザー登録を処理する。
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if details := validation.ValidateRegister(&req); len(details) > 0 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError(details))
		return
	}

	if err := h.service.Register(r.Context(), req.Name, req.Email, req.DateOfBirth); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, messageResponse{
		Message: "登録が完了しました。メールに記載されたOTPで確認を行ってください。",
	})
}

// SendOTP はログイン用OTPの発行を処理する。
// POST /auth/send-otp
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req validation.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if details := validation.ValidateEmail(&req); len(details) > 0 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError(details))
		return
	}

	if err := h.service.SendLoginOTP(r.Context(), req.Email); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, messageResponse{
		Message: "OTPを送信しました。メールを確認してください。",
	})
}

// VerifyOTP はOTP検証とトークン発行を処理する。
// POST /auth/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req validation.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if details := validation.ValidateVerifyOTP(&req); len(details) > 0 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError(details))
		return
	}

	result, err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, authResponse{
		Message: "メールアドレスの確認が完了しました。",
		Token:   result.Token,
		User:    result.User,
	})
}

// Login は確認済みユーザーのログインを処理する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req validation.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if details := validation.ValidateEmail(&req); len(details) > 0 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError(details))
		return
	}

	result, err := h.service.Login(r.Context(), req.Email)
	if err != nil {
		// ログインでは未登録ユーザーも404ではなく400で応答する
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUserNotFound {
			middleware.WriteErrorResponse(w, http.StatusBadRequest, apiErr)
			return
		}
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, authResponse{
		Message: "ログインしました。",
		Token:   result.Token,
		User:    result.User,
	})
}

// writeJSONResponse はJSONレスポンスを書き込む。
func writeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeInvalidRequestBody はJSON解析失敗の統一レスポンスを書き込む。
func writeInvalidRequestBody(w http.ResponseWriter) {
	middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
// 存在しないユーザー・メモは404、未提示トークンは401、無効トークンは403、
// それ以外のドメインエラーは400になる。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUserNotFound, model.ErrCodeNoteNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidToken:
		return http.StatusForbidden
	case model.ErrCodeValidationFailed, model.ErrCodeUserExists,
		model.ErrCodeInvalidOTP, model.ErrCodeOTPExpired,
		model.ErrCodeEmailNotVerified:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
