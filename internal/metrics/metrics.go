// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とHTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordOTPIssued()
	RecordOTPVerifySuccess()
	RecordOTPVerifyFailure(reason string)
	RecordMailSent()
	RecordMailFailure()
	RecordNoteCreated()
	RecordNoteDeleted()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	otpIssued        prometheus.Counter
	otpVerifySuccess prometheus.Counter
	otpVerifyFail    *prometheus.CounterVec
	mailSent         prometheus.Counter
	mailFail         prometheus.Counter
	notesCreated     prometheus.Counter
	notesDeleted     prometheus.Counter
	httpStatus       *prometheus.CounterVec
	requestLatency   prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		otpIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteman_otp_issued_total",
			Help: "発行されたOTPの合計数",
		}),
		otpVerifySuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteman_otp_verify_success_total",
			Help: "OTP検証成功の合計数",
		}),
		otpVerifyFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "noteman_otp_verify_fail_total",
			Help: "OTP検証失敗の理由別合計数",
		}, []string{"reason"}),
		mailSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteman_mail_sent_total",
			Help: "OTPメール送信成功の合計数",
		}),
		mailFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteman_mail_fail_total",
			Help: "OTPメール送信失敗の合計数",
		}),
		notesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteman_notes_created_total",
			Help: "作成されたメモの合計数",
		}),
		notesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "noteman_notes_deleted_total",
			Help: "削除されたメモの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "noteman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "noteman_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.otpIssued,
		c.otpVerifySuccess,
		c.otpVerifyFail,
		c.mailSent,
		c.mailFail,
		c.notesCreated,
		c.notesDeleted,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordOTPIssued はOTP発行を記録する。
func (c *Collector) RecordOTPIssued() {
	c.otpIssued.Inc()
}

// RecordOTPVerifySuccess はOTP検証成功を記録する。
func (c *Collector) RecordOTPVerifySuccess() {
	c.otpVerifySuccess.Inc()
}

// RecordOTPVerifyFailure はOTP検証失敗を理由付きで記録する。
func (c *Collector) RecordOTPVerifyFailure(reason string) {
	c.otpVerifyFail.WithLabelValues(reason).Inc()
}

// RecordMailSent はメール送信成功を記録する。
func (c *Collector) RecordMailSent() {
	c.mailSent.Inc()
}

// RecordMailFailure はメール送信失敗を記録する。
func (c *Collector) RecordMailFailure() {
	c.mailFail.Inc()
}

// RecordNoteCreated はメモ作成を記録する。
func (c *Collector) RecordNoteCreated() {
	c.notesCreated.Inc()
}

// RecordNoteDeleted はメモ削除を記録する。
func (c *Collector) RecordNoteDeleted() {
	c.notesDeleted.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// インターフェースの実装を強制するコンパイル時チェック
var _ MetricsCollector = (*Collector)(nil)

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
