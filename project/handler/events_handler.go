package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/slack-go/slack/slackevents"

	"sedaily-bot/project/dto"
	"sedaily-bot/project/infrastructure/httpsec"
	"sedaily-bot/project/infrastructure/logging"
	"sedaily-bot/project/service"
)

// maxEventBody はイベントリクエストボディの上限サイズです
const maxEventBody = 1 << 20

// EventsHandler は Slack Events API からのイベントを処理します
type EventsHandler struct {
	verificationToken string
	welcomeService    service.WelcomeService
	dispatch          DispatchFunc
}

// NewEventsHandler はイベントハンドラーを作成します
func NewEventsHandler(verificationToken string, welcomeService service.WelcomeService, opts ...Option) *EventsHandler {
	o := newOptions(opts)
	return &EventsHandler{
		verificationToken: verificationToken,
		welcomeService:    welcomeService,
		dispatch:          o.dispatch,
	}
}

// ServeHTTP は Slack イベント受信エンドポイントです
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.From(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req dto.SlackEventRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logger.Warn("event payload is not JSON", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	// 検証トークンは url_verification を含む全リクエストで確認する
	if err := httpsec.VerifyToken(h.verificationToken, req.Token); err != nil {
		logger.Warn("event token verification failed", "type", req.Type, "error", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch req.Type {
	case slackevents.URLVerification:
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(req.Challenge))
		return

	case slackevents.CallbackEvent:
		// Slack の 3 秒制限に間に合うよう先に応答する
		w.WriteHeader(http.StatusOK)
		h.handleEvent(ctx, req)
		return

	default:
		logger.Debug("ignored event envelope", "type", req.Type)
		w.WriteHeader(http.StatusOK)
	}
}

// handleEvent は内側のイベントを種類ごとに振り分けます
func (h *EventsHandler) handleEvent(ctx context.Context, req dto.SlackEventRequest) {
	switch slackevents.EventsAPIType(req.Event.Type) {
	case slackevents.MemberJoinedChannel:
		event := &service.JoinEvent{
			ChannelID: req.Event.Channel,
			UserID:    req.Event.User,
		}
		logging.From(ctx).Info("member joined channel",
			"event_id", req.EventID,
			"channel", event.ChannelID,
			"user", event.UserID,
		)
		h.dispatch(ctx, func(ctx context.Context) error {
			return h.welcomeService.OnMemberJoined(ctx, event)
		})

	default:
		logging.From(ctx).Debug("ignored event", "event_type", req.Event.Type)
	}
}
