// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/noteman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail は正規化済みメールアドレスでユーザーを検索する。
	// 見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。メールアドレスの一意制約違反はエラーになるが、
	// 呼び出し側は事前にFindByEmailで重複を検査すること。
	Create(ctx context.Context, user *model.User) error

	// UpdateOTP はユーザーのOTPコードと有効期限を上書きする。
	// 未消費の既存コードは無効になる（last-writer-wins）。
	UpdateOTP(ctx context.Context, id, code string, expiresAt time.Time) error

	// ConsumeOTP はOTPコードと有効期限をクリアし、verifiedをtrueにする。
	// verifiedが既にtrueの場合も結果は変わらない（冪等）。
	ConsumeOTP(ctx context.Context, id string) error
}

// NoteRepository はメモデータの永続化インターフェース。
// すべての読み取り・削除は所有者IDで絞り込む。
type NoteRepository interface {
	// ListByOwner は所有者のメモ一覧を作成日時の降順で返す。
	// メモが存在しない場合は空スライスを返す。
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Note, error)

	// Create はメモを作成する。
	Create(ctx context.Context, note *model.Note) error

	// DeleteByIDAndOwner は指定IDかつ指定所有者のメモを削除する。
	// 削除対象が存在した場合はtrueを返す。
	// 他ユーザーのメモは存在しないメモと区別されない。
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (bool, error)
}
