package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/noteman/internal/metrics"
	"github.com/hitoshi/noteman/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	JWTSecret         []byte
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	HTTPMetrics       middleware.HTTPMetricsRecorder

	// サービス
	AuthService AuthServiceInterface
	NoteService NoteServiceInterface

	// 運用エンドポイント
	HealthChecker   HealthChecker
	MetricsGatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORS → Logging → Metrics → (認証ルートのみ) OTPRateLimit
//	                                    → (メモルートのみ) Auth → GeneralRateLimit
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))

	authHandler := NewAuthHandler(deps.AuthService)
	noteHandler := NewNoteHandler(deps.NoteService)

	// --- 認証不要のルート ---

	// ヘルスチェック（DB接続を確認する）
	r.Get("/health", newHealthHandler(deps.HealthChecker))

	// Prometheusスクレイプ
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))

	// 認証フロー。OTPを発行するエンドポイントにはIPごとのレート制限を追加する。
	r.Route("/auth", func(r chi.Router) {
		r.With(deps.RateLimiter.OTPRequestMiddleware()).Post("/register", authHandler.Register)
		r.With(deps.RateLimiter.OTPRequestMiddleware()).Post("/send-otp", authHandler.SendOTP)
		r.Post("/verify-otp", authHandler.VerifyOTP)
		r.Post("/login", authHandler.Login)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.JWTSecret))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", noteHandler.ListNotes)
			r.Post("/", noteHandler.CreateNote)
			r.Delete("/{id}", noteHandler.DeleteNote)
		})
	})

	return r
}

// newHealthHandler はDB接続を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := checker.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
			})
			return
		}
		writeJSONResponse(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	}
}
