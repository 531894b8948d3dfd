package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"sedaily-bot/project/domain"
	"sedaily-bot/project/infrastructure/config"
	"sedaily-bot/project/service"
)

// userAgent は GitHub API が必須とする User-Agent ヘッダーの値です
const userAgent = "SEDaily"

// GitHubClient は service.RepositoryPort の GitHub REST API 実装です
type GitHubClient struct {
	baseURL    string
	org        string
	httpClient *http.Client
}

// NewGitHubClient は GitHub クライアントを初期化します
func NewGitHubClient(cfg *config.Config, httpClient *http.Client) *GitHubClient {
	return &GitHubClient{
		baseURL:    strings.TrimRight(cfg.GitHubAPIURL, "/"),
		org:        cfg.GitHubOrg,
		httpClient: httpClient,
	}
}

// ListRepositories は組織の公開リポジトリ一覧を取得します
// 先頭1ページ（最大100件）のみで、API が返した順序を保持します
func (gc *GitHubClient) ListRepositories(ctx context.Context) ([]service.Repository, error) {
	endpoint := fmt.Sprintf("%s/orgs/%s/repos?per_page=100", gc.baseURL, url.PathEscape(gc.org))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "github: リクエスト作成失敗", goerr.V("org", gc.org))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := gc.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "github: リクエスト送信失敗", goerr.V("org", gc.org), goerr.T(domain.TagUpstream))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, goerr.New("github: API エラー",
			goerr.V("org", gc.org),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
			goerr.T(domain.TagUpstream))
	}

	var repos []service.Repository
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, goerr.Wrap(err, "github: レスポンス JSON 解析失敗", goerr.V("org", gc.org), goerr.T(domain.TagParse))
	}

	return repos, nil
}
