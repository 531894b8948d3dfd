package service

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"sedaily-bot/project/infrastructure/config"
	"sedaily-bot/project/infrastructure/logging"
)

// WelcomeService は新規参加者へのウェルカムメッセージ送信を管理するサービスです
type WelcomeService interface {
	// OnMemberJoined はチャンネル参加時に呼ばれ、チャンネルに応じたウェルカムDMを送信します
	// 対象外のチャンネルの場合は何もしません
	OnMemberJoined(ctx context.Context, ev *JoinEvent) error

	// SendWelcome は設定されたバリアントのウェルカムDMを送信します（welcome コマンド用）
	SendWelcome(ctx context.Context, userID string) error
}

// welcomeService は WelcomeService の実装です
type welcomeService struct {
	cfg *config.Config
	sp  SlackPort
	rp  RepositoryPort
}

// NewWelcomeService は WelcomeService のインスタンスを作成します
func NewWelcomeService(cfg *config.Config, sp SlackPort, rp RepositoryPort) WelcomeService {
	return &welcomeService{
		cfg: cfg,
		sp:  sp,
		rp:  rp,
	}
}

// OnMemberJoined は参加チャンネルに応じてウェルカムDMを振り分けます
func (ws *welcomeService) OnMemberJoined(ctx context.Context, ev *JoinEvent) error {
	if ev.ChannelID == "" || ev.UserID == "" {
		return nil
	}

	switch {
	case ev.ChannelID == ws.cfg.AppDevChannel || ev.ChannelID == ws.cfg.TestChannel:
		logging.From(ctx).Info("app development channel joined", "channel", ev.ChannelID, "user", ev.UserID)
		return ws.sendContributorWelcome(ctx, ev.UserID)

	case ev.ChannelID == ws.cfg.GeneralChannel:
		logging.From(ctx).Info("general channel joined", "channel", ev.ChannelID, "user", ev.UserID)
		return ws.sendGeneralWelcome(ctx, ev.UserID)
	}

	return nil
}

// SendWelcome は設定のバリアントに従ってウェルカムDMを送信します
func (ws *welcomeService) SendWelcome(ctx context.Context, userID string) error {
	if ws.cfg.WelcomeVariant == config.WelcomeGeneral {
		return ws.sendGeneralWelcome(ctx, userID)
	}
	return ws.sendContributorWelcome(ctx, userID)
}

// sendContributorWelcome はリポジトリ一覧付きのウェルカムDMを送信します
func (ws *welcomeService) sendContributorWelcome(ctx context.Context, userID string) error {
	repos, err := ws.rp.ListRepositories(ctx)
	if err != nil {
		return goerr.Wrap(err, "リポジトリ一覧取得失敗", goerr.V("user", userID))
	}

	text := FormatRepoLinks(ws.cfg.GitHubOrg, ws.cfg.AppDevChannel, repos)
	if err := ws.sp.PostDM(ctx, userID, text); err != nil {
		return goerr.Wrap(err, "ウェルカムDM送信失敗", goerr.V("user", userID))
	}

	return nil
}

// sendGeneralWelcome は各プラットフォームのチャンネル案内をDMで送信します
func (ws *welcomeService) sendGeneralWelcome(ctx context.Context, userID string) error {
	text := FormatGeneralWelcome(ws.cfg.AppDevChannel, ws.cfg.IOSChannel, ws.cfg.AndroidChannel, ws.cfg.WebChannel)
	if err := ws.sp.PostDM(ctx, userID, text); err != nil {
		return goerr.Wrap(err, "ウェルカムDM送信失敗", goerr.V("user", userID))
	}

	return nil
}
