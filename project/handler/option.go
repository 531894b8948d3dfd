package handler

import (
	"context"

	"sedaily-bot/project/infrastructure/async"
)

// DispatchFunc は HTTP 応答後に実行する処理を起動する関数です
type DispatchFunc func(ctx context.Context, fn func(ctx context.Context) error)

// Option はハンドラーの振る舞いを変更します
type Option func(*options)

type options struct {
	dispatch DispatchFunc
}

func newOptions(opts []Option) options {
	o := options{dispatch: async.Dispatch}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDispatch は応答後処理の起動方法を差し替えます
// テストでは同期実行する関数を渡します
func WithDispatch(d DispatchFunc) Option {
	return func(o *options) {
		o.dispatch = d
	}
}
