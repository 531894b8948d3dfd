package grafana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"sedaily-bot/project/domain"
	"sedaily-bot/project/infrastructure/config"
	"sedaily-bot/project/service"
)

// GrafanaClient は service.DashboardPort の Grafana HTTP API 実装です
type GrafanaClient struct {
	baseURL    string
	apiKey     string
	slug       string
	httpClient *http.Client
}

// NewGrafanaClient は Grafana クライアントを初期化します
func NewGrafanaClient(cfg *config.Config, httpClient *http.Client) *GrafanaClient {
	return &GrafanaClient{
		baseURL:    strings.TrimRight(cfg.GrafanaURL, "/"),
		apiKey:     cfg.GrafanaAPIKey,
		slug:       cfg.DashboardSlug,
		httpClient: httpClient,
	}
}

// dashboardResponse は GET /api/dashboards/db/{slug} のレスポンスです
type dashboardResponse struct {
	Dashboard json.RawMessage `json:"dashboard"`
}

// snapshotRequest は POST /api/snapshots のリクエストボディです
type snapshotRequest struct {
	Dashboard json.RawMessage `json:"dashboard"`
	Name      string          `json:"name"`
	Expires   int64           `json:"expires"`
}

// GetDashboard はスナップショット対象のダッシュボード定義を取得します
func (gc *GrafanaClient) GetDashboard(ctx context.Context) (json.RawMessage, error) {
	path := "/api/dashboards/db/" + url.PathEscape(gc.slug)

	var resp dashboardResponse
	if err := gc.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	if len(resp.Dashboard) == 0 || string(resp.Dashboard) == "null" {
		return nil, goerr.New("grafana: dashboard フィールドがありません", goerr.V("slug", gc.slug), goerr.T(domain.TagParse))
	}

	return resp.Dashboard, nil
}

// CreateSnapshot はダッシュボード定義からスナップショットを生成します
func (gc *GrafanaClient) CreateSnapshot(ctx context.Context, dashboard json.RawMessage, name string, expires time.Duration) (*service.Snapshot, error) {
	body := snapshotRequest{
		Dashboard: dashboard,
		Name:      name,
		Expires:   int64(expires / time.Second),
	}

	var snap service.Snapshot
	if err := gc.do(ctx, http.MethodPost, "/api/snapshots", &body, &snap); err != nil {
		return nil, err
	}

	if snap.URL == "" {
		return nil, goerr.New("grafana: スナップショットURLが空です", goerr.V("key", snap.Key), goerr.T(domain.TagParse))
	}

	return &snap, nil
}

// do は JSON リクエストを送信し、2xx のレスポンスボディを out にデコードします
func (gc *GrafanaClient) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return goerr.Wrap(err, "grafana: リクエストボディ JSON 化失敗", goerr.V("path", path))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, gc.baseURL+path, reader)
	if err != nil {
		return goerr.Wrap(err, "grafana: リクエスト作成失敗", goerr.V("path", path))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", gc.apiKey))
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := gc.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "grafana: リクエスト送信失敗", goerr.V("method", method), goerr.V("path", path), goerr.T(domain.TagUpstream))
	}
	defer resp.Body.Close()

	// レスポンスステータスチェック
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("grafana: API エラー",
			goerr.V("method", method),
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)),
			goerr.T(domain.TagUpstream))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "grafana: レスポンス JSON 解析失敗", goerr.V("path", path), goerr.T(domain.TagParse))
	}

	return nil
}
