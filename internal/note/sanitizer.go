// Package note はメモの管理機能を提供する。
package note

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer はメモ本文のサニタイズ機能のインターフェースを定義する。
// タイトルと本文の保存前に使用される。
type Sanitizer interface {
	// Sanitize は入力からHTMLタグを除去し、プレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// plainTextSanitizer はSanitizerの実装。
// メモはプレーンテキストとして保存するため、全タグを除去するポリシーを使う。
type plainTextSanitizer struct {
	policy *bluemonday.Policy
}

// NewPlainTextSanitizer はSanitizerの新しいインスタンスを生成する。
// scriptやiframeを含むすべてのHTMLタグが除去され、テキスト内容だけが残る。
func NewPlainTextSanitizer() *plainTextSanitizer {
	return &plainTextSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はHTMLタグを除去したプレーンテキストを返す。
// bluemondayがエスケープしたエンティティ（&amp;等）は元の文字に戻す。
// タグ除去後の前後空白は取り除く。
func (s *plainTextSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	stripped := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// インターフェースの実装を強制するコンパイル時チェック
var _ Sanitizer = (*plainTextSanitizer)(nil)
