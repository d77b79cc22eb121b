// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// OTPCodeとOTPExpiresAtは両方設定されているか両方未設定かのいずれかで、
// 発行時に同時にセットされ、検証成功時に同時にクリアされる。
type User struct {
	ID           string
	Email        string
	Name         string
	DateOfBirth  string // DD/MM/YYYY形式の文字列
	Verified     bool
	OTPCode      *string
	OTPExpiresAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser はAPIレスポンスに含めるユーザーの公開プロジェクション。
// OTPと生年月日は決して含めない。
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public は公開プロジェクションを返す。
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
