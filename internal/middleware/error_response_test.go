package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/noteman/internal/model"
)

func TestWriteErrorResponse_WritesUnifiedFormat(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteErrorResponse(rec, http.StatusNotFound, model.NewUserNotFoundError())

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error != model.ErrCodeUserNotFound {
		t.Errorf("error = %q, want %q", body.Error, model.ErrCodeUserNotFound)
	}
	if body.Message == "" || body.Category == "" || body.Action == "" {
		t.Errorf("expected non-empty message/category/action, got %+v", body)
	}
	if body.Details != nil {
		t.Errorf("details should be absent for non-validation errors, got %+v", body.Details)
	}
}

func TestWriteErrorResponse_ValidationError_IncludesDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	apiErr := model.NewValidationError([]model.FieldError{
		{Field: "email", Message: "メールアドレスの形式が正しくありません。"},
		{Field: "name", Message: "名前は2文字以上で入力してください。"},
	})
	WriteErrorResponse(rec, http.StatusBadRequest, apiErr)

	var body ErrorResponseBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Details) != 2 {
		t.Fatalf("details length = %d, want 2", len(body.Details))
	}
	if body.Details[0].Field != "email" {
		t.Errorf("details[0].field = %q, want %q", body.Details[0].Field, "email")
	}
	// 先頭フィールドのメッセージがトップレベルのメッセージになる
	if body.Message != "メールアドレスの形式が正しくありません。" {
		t.Errorf("message = %q, want first field message", body.Message)
	}
}

func TestWriteErrorResponse_OmitsEmptyDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteErrorResponse(rec, http.StatusBadRequest, model.NewInvalidOTPError())

	if strings.Contains(rec.Body.String(), "details") {
		t.Errorf("empty details should be omitted from JSON: %s", rec.Body.String())
	}
}

func TestWriteInternalServerError_Returns500WithGenericMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteInternalServerError(rec)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error != "INTERNAL_ERROR" {
		t.Errorf("error = %q, want INTERNAL_ERROR", body.Error)
	}
}
