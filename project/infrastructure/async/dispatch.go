package async

import (
	"context"
	"time"

	"sedaily-bot/project/infrastructure/errutil"
	"sedaily-bot/project/infrastructure/logging"
)

// Timeout は非同期処理1件あたりの上限時間です
const Timeout = 30 * time.Second

// Dispatch は handler を新しいゴルーチンで実行します
// HTTP 応答後もキャンセルされないよう、ロガーだけを引き継いだ新しいコンテキストを使います
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		ctx, cancel := context.WithTimeout(bgCtx, Timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				errutil.Recover(ctx, r)
			}
		}()

		if err := handler(ctx); err != nil {
			errutil.Handle(ctx, err, "async handler failed")
		}
	}()
}
