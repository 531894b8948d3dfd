package handler

import (
	"context"
	"net/http"

	"github.com/slack-go/slack"

	"sedaily-bot/project/infrastructure/httpsec"
	"sedaily-bot/project/infrastructure/logging"
	"sedaily-bot/project/service"
)

// CommandsHandler は Slack スラッシュコマンドを処理します
type CommandsHandler struct {
	verificationToken string
	commandService    service.CommandService
	dispatch          DispatchFunc
}

// NewCommandsHandler はコマンドハンドラーを作成します
func NewCommandsHandler(verificationToken string, commandService service.CommandService, opts ...Option) *CommandsHandler {
	o := newOptions(opts)
	return &CommandsHandler{
		verificationToken: verificationToken,
		commandService:    commandService,
		dispatch:          o.dispatch,
	}
}

// ServeHTTP は Slack スラッシュコマンド受信エンドポイントです
// 返信は response_url へ別送するため、HTTP 応答は空の 200 です
func (h *CommandsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.From(ctx)

	s, err := slack.SlashCommandParse(r)
	if err != nil {
		logger.Warn("slash command parse failed", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := httpsec.VerifyToken(h.verificationToken, s.Token); err != nil {
		logger.Warn("slash command token verification failed", "command", s.Command, "user", s.UserID, "error", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cmd := &service.SlashCommand{
		Text:        s.Text,
		UserID:      s.UserID,
		ChannelID:   s.ChannelID,
		ResponseURL: s.ResponseURL,
	}

	// Slack の 3 秒制限に間に合うよう先に応答する
	w.WriteHeader(http.StatusOK)

	h.dispatch(ctx, func(ctx context.Context) error {
		return h.commandService.Handle(ctx, cmd)
	})
}
