package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader はステータスコードを記録してから委譲する。
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write はデータを書き込む。WriteHeaderが未呼び出しの場合は200を記録する。
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// authInfo は後段の認証ミドルウェアが検証結果を書き込むホルダー。
// 認証はロギングより内側で実行され、注入済みコンテキストは外側に
// 伝播しないため、ロギングミドルウェアが先に空のホルダーを積んでおき、
// 認証ミドルウェアがそこへユーザーIDを書き込む。
type authInfo struct {
	userID string
}

var authInfoContextKey = contextKey("auth_info")

// NewLoggingMiddleware はリクエストのJSON構造化ログを出力するミドルウェアを返す。
// ログにはmethod、path、status、duration_ms、user_id（認証済みの場合）を含む。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			info := &authInfo{}
			r = r.WithContext(context.WithValue(r.Context(), authInfoContextKey, info))

			next.ServeHTTP(rec, r)

			args := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000.0),
			}
			if info.userID != "" {
				args = append(args, slog.String("user_id", info.userID))
			}

			logger.Log(r.Context(), levelForStatus(rec.statusCode), "http_request", args...)
		})
	}
}

// levelForStatus は4xxをWARN、5xxをERRORに引き上げる。
func levelForStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
