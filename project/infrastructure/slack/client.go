package slack

import (
	"context"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"sedaily-bot/project/domain"
	"sedaily-bot/project/infrastructure/config"
)

// SlackClient は service.SlackPort の Slack SDK 実装です
type SlackClient struct {
	cli        *slack.Client
	httpClient *http.Client
	iconEmoji  string
	username   string
}

// NewSlackClient は Slack クライアントを初期化します
func NewSlackClient(cfg *config.Config, httpClient *http.Client) *SlackClient {
	opts := []slack.Option{slack.OptionHTTPClient(httpClient)}
	if cfg.SlackAPIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.SlackAPIURL))
	}

	return &SlackClient{
		cli:        slack.New(cfg.SlackBotToken, opts...),
		httpClient: httpClient,
		iconEmoji:  cfg.SlackIconEmoji,
		username:   cfg.SlackUsername,
	}
}

// PostDM はユーザーに Bot のアイコン・表示名で DM を送信します
// chat.postMessage の channel にユーザーIDを指定すると App Home の DM に届きます
func (sc *SlackClient) PostDM(ctx context.Context, userID, text string) error {
	_, _, err := sc.cli.PostMessageContext(
		ctx,
		userID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionIconEmoji(sc.iconEmoji),
		slack.MsgOptionUsername(sc.username),
	)
	if err != nil {
		return goerr.Wrap(err, "slack: DM 送信失敗", goerr.V("user", userID), goerr.T(domain.TagUpstream))
	}

	return nil
}

// Respond はスラッシュコマンドの response_url にエフェメラル応答を送信します
func (sc *SlackClient) Respond(ctx context.Context, responseURL, text string) error {
	if responseURL == "" {
		return goerr.New("slack: response_url が空です", goerr.T(domain.TagUpstream))
	}

	msg := &slack.WebhookMessage{
		Text:         text,
		ResponseType: slack.ResponseTypeEphemeral,
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, responseURL, sc.httpClient, msg); err != nil {
		return goerr.Wrap(err, "slack: エフェメラル応答送信失敗", goerr.T(domain.TagUpstream))
	}

	return nil
}
