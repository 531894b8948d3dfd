package errutil

import (
	"context"
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"

	"sedaily-bot/project/infrastructure/logging"
)

// flushTimeout は終了時に未送信イベントを待つ時間です
const flushTimeout = 2 * time.Second

// InitSentry は DSN が指定されていれば Sentry クライアントを初期化します
// 戻り値の関数は終了時に呼び出して未送信イベントを送り切ります
func InitSentry(dsn, env string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
	}); err != nil {
		return nil, goerr.Wrap(err, "Sentry 初期化失敗")
	}

	return func() { sentry.Flush(flushTimeout) }, nil
}

// Handle はエラーを goerr の値・スタック付きで記録し、Sentry が有効なら送信します
// Sentry 未初期化の場合、送信は何もしません
func Handle(ctx context.Context, err error, msg string) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("handler", msg)
	})
	hub.CaptureException(err)
}

// Recover は recover() の戻り値を記録します
func Recover(ctx context.Context, r any) {
	logging.From(ctx).Error("panic recovered", "panic", r)
	sentry.CurrentHub().Clone().Recover(r)
}
