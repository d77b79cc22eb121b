package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/noteman/internal/middleware"
	"github.com/hitoshi/noteman/internal/model"
	"github.com/hitoshi/noteman/internal/validation"
)

// NoteServiceInterface はメモハンドラーが必要とするサービスインターフェース。
type NoteServiceInterface interface {
	// List はユーザーのメモ一覧を作成日時の降順で返す。
	List(ctx context.Context, ownerID string) ([]*model.Note, error)
	// Create は新しいメモを作成して返す。
	Create(ctx context.Context, ownerID, title, content string) (*model.Note, error)
	// Delete は所有者のメモを削除する。
	Delete(ctx context.Context, noteID, ownerID string) error
}

// NoteHandler はメモ管理のHTTPハンドラー。
type NoteHandler struct {
	service NoteServiceInterface
}

// NewNoteHandler はNoteHandlerを生成する。
func NewNoteHandler(service NoteServiceInterface) *NoteHandler {
	return &NoteHandler{service: service}
}

// ListNotes はメモ一覧の取得を処理する。
// GET /notes
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	notes, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, notes)
}

// CreateNote はメモの作成を処理する。
// POST /notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req validation.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if details := validation.ValidateCreateNote(&req); len(details) > 0 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError(details))
		return
	}

	note, err := h.service.Create(r.Context(), userID, req.Title, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, note)
}

// DeleteNote はメモの削除を処理する。
// DELETE /notes/:id
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	noteID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), noteID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, messageResponse{
		Message: "メモを削除しました。",
	})
}
