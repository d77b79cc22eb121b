package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/noteman/internal/model"
)

// PostgresNoteRepo はPostgreSQLを使用したメモリポジトリ。
type PostgresNoteRepo struct {
	db *sql.DB
}

// NewPostgresNoteRepo はPostgresNoteRepoを生成する。
func NewPostgresNoteRepo(db *sql.DB) *PostgresNoteRepo {
	return &PostgresNoteRepo{db: db}
}

// ListByOwner は所有者のメモ一覧を作成日時の降順で返す。
// メモが存在しない場合は空スライスを返す（nilは返さない）。
func (r *PostgresNoteRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
		 FROM notes
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*model.Note, 0)
	for rows.Next() {
		note := &model.Note{}
		if err := rows.Scan(
			&note.ID, &note.UserID, &note.Title, &note.Content,
			&note.CreatedAt, &note.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return notes, nil
}

// Create はメモを作成する。
func (r *PostgresNoteRepo) Create(ctx context.Context, note *model.Note) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		note.ID, note.UserID, note.Title, note.Content,
		note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// DeleteByIDAndOwner は指定IDかつ指定所有者のメモを削除する。
// 削除対象が存在した場合はtrueを返す。
// 所有者条件をWHERE句に含めるため、他ユーザーのメモは存在しないメモと区別されない。
func (r *PostgresNoteRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete note: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ NoteRepository = (*PostgresNoteRepo)(nil)
