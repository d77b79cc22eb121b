// Package model はドメインモデルを定義する。
package model

import "time"

// Note はユーザーが所有するメモを表す。
// UserIDは作成時に確定し、以降変更されない。
// 更新操作は存在しない（作成と削除のみ）。
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
