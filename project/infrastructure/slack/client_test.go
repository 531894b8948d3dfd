package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"sedaily-bot/project/domain"
	"sedaily-bot/project/infrastructure/config"
	"sedaily-bot/project/infrastructure/slack"
)

func TestSlackClient_PostDM(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Path).Equal("/chat.postMessage")
		gt.NoError(t, r.ParseForm())
		got = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"D123","ts":"1700000000.000100"}`))
	}))
	defer srv.Close()

	cfg := &config.Config{
		SlackBotToken:  "xoxb-test",
		SlackAPIURL:    srv.URL + "/",
		SlackIconEmoji: ":sedaily:",
		SlackUsername:  "New Contributor Bot",
	}
	client := slack.NewSlackClient(cfg, srv.Client())

	gt.NoError(t, client.PostDM(context.Background(), "U123", "hello")).Required()
	gt.Value(t, got.Get("channel")).Equal("U123")
	gt.Value(t, got.Get("text")).Equal("hello")
	gt.Value(t, got.Get("icon_emoji")).Equal(":sedaily:")
	gt.Value(t, got.Get("username")).Equal("New Contributor Bot")
	gt.Value(t, got.Get("token")).Equal("xoxb-test")
}

func TestSlackClient_PostDM_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	}))
	defer srv.Close()

	cfg := &config.Config{SlackBotToken: "xoxb-test", SlackAPIURL: srv.URL + "/"}
	client := slack.NewSlackClient(cfg, srv.Client())

	err := client.PostDM(context.Background(), "U123", "hello")
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, domain.TagUpstream)).True()
}

func TestSlackClient_Respond(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.Method).Equal(http.MethodPost)
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := slack.NewSlackClient(&config.Config{SlackBotToken: "xoxb-test"}, srv.Client())

	t.Run("posts ephemeral message", func(t *testing.T) {
		gt.NoError(t, client.Respond(context.Background(), srv.URL+"/commands/1/2", "hi")).Required()
		gt.Value(t, body["text"]).Equal("hi")
		gt.Value(t, body["response_type"]).Equal("ephemeral")
	})

	t.Run("empty response url", func(t *testing.T) {
		err := client.Respond(context.Background(), "", "hi")
		gt.Error(t, err)
	})
}

func TestSlackClient_Respond_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := slack.NewSlackClient(&config.Config{SlackBotToken: "xoxb-test"}, srv.Client())
	err := client.Respond(context.Background(), srv.URL, "hi")
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, domain.TagUpstream)).True()
}
