package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/noteman/internal/model"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // 認証済みAPI全般のレート（req/sec）。120/60 = 2 req/sec
	GeneralBurst    int           // 認証済みAPI全般のバーストサイズ
	OTPRate         rate.Limit    // OTP発行のレート（req/sec）。10/60
	OTPBurst        int           // OTP発行のバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// 認証済みAPI全般はユーザーごとに120 req/min、OTP発行は送信元IPごとに10 req/min。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(120.0 / 60.0), // 2 req/sec
		GeneralBurst:    120,
		OTPRate:         rate.Limit(10.0 / 60.0), // ~0.167 req/sec
		OTPBurst:        10,
		CleanupInterval: 5 * time.Minute,
	}
}

// keyedLimiter はキーごとのレートリミッターとアクセス時刻を保持する。
type keyedLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterSet はキー（ユーザーIDまたは送信元IP）ごとのリミッターの集合。
type limiterSet struct {
	rate  rate.Limit
	burst int

	mu       sync.RWMutex
	limiters map[string]*keyedLimiter
}

func newLimiterSet(r rate.Limit, burst int) *limiterSet {
	return &limiterSet{
		rate:     r,
		burst:    burst,
		limiters: make(map[string]*keyedLimiter),
	}
}

// getOrCreate はキーに対応するリミッターを取得または作成する。
func (ls *limiterSet) getOrCreate(key string) *rate.Limiter {
	ls.mu.RLock()
	kl, exists := ls.limiters[key]
	ls.mu.RUnlock()

	if exists {
		ls.mu.Lock()
		kl.lastAccess = time.Now()
		ls.mu.Unlock()
		return kl.limiter
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	// ダブルチェック
	if kl, exists := ls.limiters[key]; exists {
		kl.lastAccess = time.Now()
		return kl.limiter
	}

	limiter := rate.NewLimiter(ls.rate, ls.burst)
	ls.limiters[key] = &keyedLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// count は現在管理されているエントリ数を返す。
func (ls *limiterSet) count() int {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return len(ls.limiters)
}

// cleanup は最終アクセス時刻がttlを超えたエントリを削除する。
func (ls *limiterSet) cleanup(now time.Time, ttl time.Duration) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for key, kl := range ls.limiters {
		if now.Sub(kl.lastAccess) > ttl {
			delete(ls.limiters, key)
		}
	}
}

// RateLimiter はキーごとのレート制限を管理する。
// 認証済みAPI全般（ユーザーIDキー）とOTP発行（送信元IPキー）の
// 2種類の制限を独立に提供する。
type RateLimiter struct {
	config  RateLimiterConfig
	general *limiterSet
	otp     *limiterSet

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:  config,
		general: newLimiterSet(config.GeneralRate, config.GeneralBurst),
		otp:     newLimiterSet(config.OTPRate, config.OTPBurst),
		stopCh:  make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware は認証済みAPI全般のレート制限ミドルウェアを返す。
// リクエストコンテキストにユーザーIDが含まれている必要がある（認証ミドルウェアの後に配置）。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := UserIDFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			if !rl.general.getOrCreate(userID).Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.String("user_id", userID),
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// OTPRequestMiddleware はOTP発行エンドポイント専用のレート制限ミドルウェアを返す。
// 未認証エンドポイントのため送信元IPをキーにする。
func (rl *RateLimiter) OTPRequestMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := clientIPFromRequest(r)

			if !rl.otp.getOrCreate(clientIP).Allow() {
				writeRateLimitResponse(w, rl.config.OTPRate)
				slog.Warn("rate limit exceeded",
					slog.String("client_ip", clientIP),
					slog.String("limit_type", "otp_request"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount は現在管理されているAPI全般リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) GeneralLimiterCount() int {
	return rl.general.count()
}

// OTPLimiterCount は現在管理されているOTP発行リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) OTPLimiterCount() int {
	return rl.otp.count()
}

// clientIPFromRequest はリクエストの送信元IPを返す。
// ポート番号を分離できない場合はRemoteAddr全体をキーとして使う。
func clientIPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	now := time.Now()
	rl.general.cleanup(now, ttl)
	rl.otp.cleanup(now, ttl)
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	// Retry-Afterの算出: 1トークンが補充されるまでの秒数
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]string{
		"error":    "RATE_LIMIT_EXCEEDED",
		"message":  "リクエストが多すぎます。",
		"category": "system",
		"action":   "しばらく待ってから再度お試しください。",
	})
}
