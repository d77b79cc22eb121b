// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hitoshi/noteman/internal/auth"
	"github.com/hitoshi/noteman/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// リクエストコンテキストに認証済みユーザー情報を格納するためのキー。
var (
	userIDContextKey    = contextKey("user_id")
	userEmailContextKey = contextKey("user_email")
)

// NewAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証する
// ミドルウェアを返す。検証済みのユーザーIDとメールアドレスを
// リクエストコンテキストに注入する。
// トークン未提示には401、検証失敗（署名不正・期限切れ・形式不正）には403を返す。
func NewAuthMiddleware(secret []byte) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. AuthorizationヘッダーからBearerトークンを取得
			header := r.Header.Get("Authorization")
			if header == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				WriteErrorResponse(w, http.StatusForbidden, model.NewInvalidTokenError())
				return
			}

			// 2. トークンの署名と有効期限を検証
			claims, err := auth.ParseToken(tokenString, secret)
			if err != nil {
				WriteErrorResponse(w, http.StatusForbidden, model.NewInvalidTokenError())
				return
			}

			// 3. 認証済みユーザー情報をコンテキストに注入
			ctx := ContextWithUser(r.Context(), claims.UserID, claims.Email)

			// 外側のロギングミドルウェアが積んだホルダーにも検証結果を書き込む
			if info, ok := ctx.Value(authInfoContextKey).(*authInfo); ok {
				info.userID = claims.UserID
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// UserEmailFromContext はリクエストコンテキストからメールアドレスを取得する。
func UserEmailFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(userEmailContextKey).(string)
	if !ok || email == "" {
		return "", fmt.Errorf("user email not found in context")
	}
	return email, nil
}

// ContextWithUser はコンテキストに認証済みユーザー情報を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, userIDContextKey, userID)
	return context.WithValue(ctx, userEmailContextKey, email)
}
