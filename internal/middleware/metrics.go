package middleware

import (
	"net/http"
	"time"
)

// HTTPMetricsRecorder はHTTPレスポンスの観測に必要なインターフェース。
// metrics.MetricsCollectorの部分集合として定義する。
type HTTPMetricsRecorder interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// NewMetricsMiddleware はレスポンスのステータスコードとレイテンシを
// 記録するミドルウェアを返す。
func NewMetricsMiddleware(recorder HTTPMetricsRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			recorder.RecordHTTPStatus(rec.statusCode)
			recorder.RecordRequestLatency(time.Since(start))
		})
	}
}
