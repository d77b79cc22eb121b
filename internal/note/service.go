package note

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/noteman/internal/model"
	"github.com/hitoshi/noteman/internal/repository"
)

// Metrics はメモサービスが記録するメトリクスのインターフェース。
type Metrics interface {
	RecordNoteCreated()
	RecordNoteDeleted()
}

// Service はメモに関するビジネスロジックを提供する。
// すべての操作は認証済みユーザーのIDにスコープされる。
type Service struct {
	notes     repository.NoteRepository
	sanitizer Sanitizer
	metrics   Metrics

	// now はテスト用に差し替え可能な現在時刻関数。
	now func() time.Time
}

// NewService はServiceを生成する。
func NewService(notes repository.NoteRepository, sanitizer Sanitizer, metrics Metrics) *Service {
	return &Service{
		notes:     notes,
		sanitizer: sanitizer,
		metrics:   metrics,
		now:       time.Now,
	}
}

// List はユーザーのメモ一覧を作成日時の降順で返す。
// メモが存在しない場合は空のスライスを返す（nilではない）。
func (s *Service) List(ctx context.Context, ownerID string) ([]*model.Note, error) {
	notes, err := s.notes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// Create は新しいメモを作成して返す。
// タイトルと本文はHTMLタグを除去してから保存する。
// タグのみの入力はサニタイズ後に空文字列となるため、
// 保存前にバリデーションエラーとして拒否する。
func (s *Service) Create(ctx context.Context, ownerID, title, content string) (*model.Note, error) {
	title = s.sanitizer.Sanitize(title)
	content = s.sanitizer.Sanitize(content)

	var details []model.FieldError
	if title == "" {
		details = append(details, model.FieldError{
			Field:   "title",
			Message: "タイトルを入力してください。",
		})
	}
	if content == "" {
		details = append(details, model.FieldError{
			Field:   "content",
			Message: "本文を入力してください。",
		})
	}
	if len(details) > 0 {
		return nil, model.NewValidationError(details)
	}

	now := s.now()
	note := &model.Note{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	s.metrics.RecordNoteCreated()

	slog.Info("note created",
		slog.String("note_id", note.ID),
		slog.String("user_id", ownerID),
	)
	return note, nil
}

// Delete は指定されたメモを削除する。
// 削除はメモの所有者にのみ許可され、他ユーザーのメモは
// 存在しないメモと区別せずNOTE_NOT_FOUNDエラーになる。
func (s *Service) Delete(ctx context.Context, noteID, ownerID string) error {
	deleted, err := s.notes.DeleteByIDAndOwner(ctx, noteID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if !deleted {
		return model.NewNoteNotFoundError()
	}
	s.metrics.RecordNoteDeleted()

	slog.Info("note deleted",
		slog.String("note_id", noteID),
		slog.String("user_id", ownerID),
	)
	return nil
}
