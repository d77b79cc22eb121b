package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/noteman/internal/middleware"
	"github.com/hitoshi/noteman/internal/model"
)

// --- モック ---

type mockNoteService struct {
	listFn   func(ctx context.Context, ownerID string) ([]*model.Note, error)
	createFn func(ctx context.Context, ownerID, title, content string) (*model.Note, error)
	deleteFn func(ctx context.Context, noteID, ownerID string) error
}

func (m *mockNoteService) List(ctx context.Context, ownerID string) ([]*model.Note, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return []*model.Note{}, nil
}
func (m *mockNoteService) Create(ctx context.Context, ownerID, title, content string) (*model.Note, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ownerID, title, content)
	}
	return &model.Note{}, nil
}
func (m *mockNoteService) Delete(ctx context.Context, noteID, ownerID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, noteID, ownerID)
	}
	return nil
}

// authedRequest は認証ミドルウェア通過後相当のリクエストを作る。
func authedRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.ContextWithUser(req.Context(), "user-1", "alice@example.com"))
}

// --- ListNotes ---

func TestNoteHandler_ListNotes_Returns200WithNotes(t *testing.T) {
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	service := &mockNoteService{
		listFn: func(ctx context.Context, ownerID string) ([]*model.Note, error) {
			if ownerID != "user-1" {
				t.Errorf("ownerID = %q, want user-1", ownerID)
			}
			return []*model.Note{
				{ID: "note-2", UserID: "user-1", Title: "後", CreatedAt: created.Add(time.Hour)},
				{ID: "note-1", UserID: "user-1", Title: "先", CreatedAt: created},
			}, nil
		},
	}
	h := NewNoteHandler(service)

	rec := httptest.NewRecorder()
	h.ListNotes(rec, authedRequest(http.MethodGet, "/notes", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var notes []model.Note
	if err := json.NewDecoder(rec.Body).Decode(&notes); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != "note-2" {
		t.Errorf("unexpected notes: %+v", notes)
	}
}

// メモが無い場合にnullではなく空配列が返ることを検証
func TestNoteHandler_ListNotes_Empty_ReturnsEmptyArray(t *testing.T) {
	h := NewNoteHandler(&mockNoteService{})

	rec := httptest.NewRecorder()
	h.ListNotes(rec, authedRequest(http.MethodGet, "/notes", ""))

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestNoteHandler_ListNotes_Unauthenticated_Returns401(t *testing.T) {
	h := NewNoteHandler(&mockNoteService{})

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	rec := httptest.NewRecorder()
	h.ListNotes(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

// --- CreateNote ---

func TestNoteHandler_CreateNote_Returns201WithNote(t *testing.T) {
	service := &mockNoteService{
		createFn: func(ctx context.Context, ownerID, title, content string) (*model.Note, error) {
			return &model.Note{
				ID:      "note-1",
				UserID:  ownerID,
				Title:   title,
				Content: content,
			}, nil
		},
	}
	h := NewNoteHandler(service)

	rec := httptest.NewRecorder()
	h.CreateNote(rec, authedRequest(http.MethodPost, "/notes",
		`{"title":"買い物","content":"牛乳を買う"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var note model.Note
	if err := json.NewDecoder(rec.Body).Decode(&note); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if note.ID != "note-1" || note.UserID != "user-1" {
		t.Errorf("unexpected note: %+v", note)
	}
}

func TestNoteHandler_CreateNote_ValidationFailure_Returns400(t *testing.T) {
	service := &mockNoteService{
		createFn: func(ctx context.Context, ownerID, title, content string) (*model.Note, error) {
			t.Error("service must not be called on validation failure")
			return nil, nil
		},
	}
	h := NewNoteHandler(service)

	// タイトル上限は100文字
	longTitle := strings.Repeat("あ", 101)
	rec := httptest.NewRecorder()
	h.CreateNote(rec, authedRequest(http.MethodPost, "/notes",
		`{"title":"`+longTitle+`","content":"c"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if body := decodeError(t, rec); body.Error != model.ErrCodeValidationFailed {
		t.Errorf("error = %q, want %q", body.Error, model.ErrCodeValidationFailed)
	}
}

func TestNoteHandler_CreateNote_MalformedJSON_Returns400(t *testing.T) {
	h := NewNoteHandler(&mockNoteService{})

	rec := httptest.NewRecorder()
	h.CreateNote(rec, authedRequest(http.MethodPost, "/notes", `{broken`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// --- DeleteNote ---

func TestNoteHandler_DeleteNote_Returns200(t *testing.T) {
	var gotNoteID, gotOwnerID string
	service := &mockNoteService{
		deleteFn: func(ctx context.Context, noteID, ownerID string) error {
			gotNoteID, gotOwnerID = noteID, ownerID
			return nil
		},
	}
	h := NewNoteHandler(service)

	// chi.URLParamを解決するためルーター経由で呼び出す
	r := chi.NewRouter()
	r.Delete("/notes/{id}", h.DeleteNote)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(http.MethodDelete, "/notes/note-1", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotNoteID != "note-1" || gotOwnerID != "user-1" {
		t.Errorf("delete args = %q/%q, want note-1/user-1", gotNoteID, gotOwnerID)
	}
}

func TestNoteHandler_DeleteNote_NotFound_Returns404(t *testing.T) {
	service := &mockNoteService{
		deleteFn: func(ctx context.Context, noteID, ownerID string) error {
			return model.NewNoteNotFoundError()
		},
	}
	h := NewNoteHandler(service)

	r := chi.NewRouter()
	r.Delete("/notes/{id}", h.DeleteNote)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(http.MethodDelete, "/notes/other-users-note", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if body := decodeError(t, rec); body.Error != model.ErrCodeNoteNotFound {
		t.Errorf("error = %q, want %q", body.Error, model.ErrCodeNoteNotFound)
	}
}
