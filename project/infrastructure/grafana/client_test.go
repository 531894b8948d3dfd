package grafana_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"sedaily-bot/project/domain"
	"sedaily-bot/project/infrastructure/config"
	"sedaily-bot/project/infrastructure/grafana"
)

func newClient(srv *httptest.Server) *grafana.GrafanaClient {
	cfg := &config.Config{
		GrafanaURL:    srv.URL + "/",
		GrafanaAPIKey: "glsa_test",
		DashboardSlug: "event-summaries",
	}
	return grafana.NewGrafanaClient(cfg, srv.Client())
}

func TestGrafanaClient_GetDashboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.Method).Equal(http.MethodGet)
		gt.Value(t, r.URL.Path).Equal("/api/dashboards/db/event-summaries")
		gt.Value(t, r.Header.Get("Authorization")).Equal("Bearer glsa_test")

		_, _ = w.Write([]byte(`{"meta":{"slug":"event-summaries"},"dashboard":{"title":"Events","panels":[]}}`))
	}))
	defer srv.Close()

	dashboard, err := newClient(srv).GetDashboard(context.Background())
	gt.NoError(t, err).Required()

	var got map[string]any
	gt.NoError(t, json.Unmarshal(dashboard, &got)).Required()
	gt.Value(t, got["title"]).Equal("Events")
}

func TestGrafanaClient_GetDashboard_MissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{}}`))
	}))
	defer srv.Close()

	_, err := newClient(srv).GetDashboard(context.Background())
	gt.Error(t, err)
	gt.Bool(t, goerr.HasTag(err, domain.TagParse)).True()
}

func TestGrafanaClient_CreateSnapshot(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.Method).Equal(http.MethodPost)
		gt.Value(t, r.URL.Path).Equal("/api/snapshots")
		gt.Value(t, r.Header.Get("Authorization")).Equal("Bearer glsa_test")
		gt.Value(t, r.Header.Get("Content-Type")).Equal("application/json")
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_, _ = w.Write([]byte(`{"key":"abc123","url":"https://grafana.example/dashboard/snapshot/abc123","deleteKey":"d"}`))
	}))
	defer srv.Close()

	snap, err := newClient(srv).CreateSnapshot(
		context.Background(),
		json.RawMessage(`{"title":"Events"}`),
		"Events API Snapshot",
		time.Hour,
	)
	gt.NoError(t, err).Required()
	gt.Value(t, snap.Key).Equal("abc123")
	gt.Value(t, snap.URL).Equal("https://grafana.example/dashboard/snapshot/abc123")

	gt.Value(t, body["name"]).Equal("Events API Snapshot")
	gt.Value(t, body["expires"]).Equal(float64(3600))
	gt.Value(t, body["dashboard"]).Equal(map[string]any{"title": "Events"})
}

func TestGrafanaClient_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		parse  bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"invalid API key"}`, false},
		{"server error", http.StatusBadGateway, ``, false},
		{"malformed json", http.StatusOK, `not json`, true},
		{"empty url", http.StatusOK, `{"key":"k"}`, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			snap, err := newClient(srv).CreateSnapshot(context.Background(), json.RawMessage(`{}`), "n", time.Hour)
			gt.Error(t, err)
			gt.Value(t, snap).Nil()
			if tc.parse {
				gt.Bool(t, goerr.HasTag(err, domain.TagParse)).True()
				gt.Bool(t, goerr.HasTag(err, domain.TagUpstream)).False()
			} else {
				gt.Bool(t, goerr.HasTag(err, domain.TagUpstream)).True()
				gt.Bool(t, goerr.HasTag(err, domain.TagParse)).False()
			}
		})
	}
}
