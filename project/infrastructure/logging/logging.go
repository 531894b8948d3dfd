package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
)

type ctxLoggerKey struct{}

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.New(slog.DiscardHandler))
}

// New はレベルと形式を指定してロガーを作成します
// トークン類（Token フィールド、xoxb-/xoxp- を含む文字列）は masq で伏せ字にします
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return nil, goerr.Wrap(err, "不正なログレベル", goerr.V("level", level))
	}

	opts := &slog.HandlerOptions{
		Level: lv,
		ReplaceAttr: masq.New(
			masq.WithFieldName("Token"),
			masq.WithFieldName("APIKey"),
			masq.WithContain("xoxb-"),
			masq.WithContain("xoxp-"),
		),
	}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, goerr.New("不正なログ形式", goerr.V("format", format))
	}
}

// Default はプロセス全体のロガーを返します
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// SetDefault はプロセス全体のロガーを差し替えます
func SetDefault(logger *slog.Logger) {
	defaultLogger.Store(logger)
}

// With は logger を保持したコンテキストを返します
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From はコンテキストのロガーを返します。無ければ Default を返します
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}
