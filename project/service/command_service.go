package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"

	"sedaily-bot/project/domain"
	"sedaily-bot/project/infrastructure/errutil"
	"sedaily-bot/project/infrastructure/logging"
)

// 固定の返信テキスト
const (
	HelpText         = "Usage: `/sedaily help|welcome|stats` (try `/sedaily stats snapshot` for the latest Events API dashboard)"
	StatsPendingText = "Stats are not yet available. Try `/sedaily stats snapshot` for the Events API dashboard."
	UnrecognizedText = "Sorry, those arguments were not recognized. Try `/sedaily help` to see what I can do."
)

// CommandService はスラッシュコマンドを解釈して応答するサービスです
type CommandService interface {
	// Handle はコマンドを実行し、結果を response_url へ送信します
	Handle(ctx context.Context, cmd *SlashCommand) error
}

// commandService は CommandService の実装です
type commandService struct {
	sp       SlackPort
	welcome  WelcomeService
	snapshot SnapshotService
}

// NewCommandService は CommandService のインスタンスを作成します
func NewCommandService(sp SlackPort, welcome WelcomeService, snapshot SnapshotService) CommandService {
	return &commandService{
		sp:       sp,
		welcome:  welcome,
		snapshot: snapshot,
	}
}

// Handle は動詞ごとに処理を振り分けます
func (cs *commandService) Handle(ctx context.Context, cmd *SlashCommand) error {
	parsed := ParseCommand(cmd.Text)
	logging.From(ctx).Info("slash command received", "verb", parsed.Verb.String(), "args", parsed.Args, "user", cmd.UserID)

	var text string
	switch parsed.Verb {
	case VerbWelcome:
		if err := cs.welcome.SendWelcome(ctx, cmd.UserID); err != nil {
			errutil.Handle(ctx, err, "welcome command failed")
			text = errorText(err)
		} else {
			// DMが届いているため返信は不要
			return nil
		}

	case VerbStats:
		text = cs.stats(ctx, parsed.Args)

	case VerbHelp:
		text = HelpText

	default:
		text = UnrecognizedText
	}

	if err := cs.sp.Respond(ctx, cmd.ResponseURL, text); err != nil {
		return goerr.Wrap(err, "コマンド応答送信失敗", goerr.V("verb", parsed.Verb.String()))
	}

	return nil
}

// stats は stats コマンドの引数に応じた返信テキストを返します
func (cs *commandService) stats(ctx context.Context, args []string) string {
	switch {
	case len(args) == 0:
		return StatsPendingText

	case len(args) == 1 && args[0] == "snapshot":
		text, err := cs.snapshot.Latest(ctx)
		if err != nil {
			errutil.Handle(ctx, err, "stats snapshot failed")
			return errorText(err)
		}
		return text
	}

	return UnrecognizedText
}

// errorText はユーザー向けの英語エラーメッセージを返します
// ラップ時の日本語メッセージはログにのみ残し、返信には含めません
func errorText(err error) string {
	return fmt.Sprintf("An error occurred: %s", errorReason(err))
}

func errorReason(err error) string {
	switch {
	case goerr.HasTag(err, domain.TagUpstream):
		return "an upstream service request failed"
	case goerr.HasTag(err, domain.TagParse):
		return "an upstream service returned an unexpected response"
	case goerr.HasTag(err, domain.TagPersistence):
		return "the snapshot cache is unavailable"
	}

	root := err
	for next := errors.Unwrap(root); next != nil; next = errors.Unwrap(root) {
		root = next
	}
	var ge *goerr.Error
	if errors.As(root, &ge) {
		return "internal error"
	}
	return root.Error()
}
