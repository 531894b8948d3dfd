package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// ウェルカムメッセージの種類
const (
	// WelcomeContributor はオープンソース貢献者向け（リポジトリ一覧付き）
	WelcomeContributor = "contributor"

	// WelcomeGeneral はワークスペース全体向け（各プラットフォームのチャンネル案内）
	WelcomeGeneral = "general"
)

// ストアの種類
const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

// Secret Manager 上のシークレット名
const (
	SecretVerificationToken = "slack-verification-token"
	SecretSlackBotToken     = "slack-bot-token"
	SecretGrafanaAPIKey     = "grafana-api-key"
)

// Config はフラグ・環境変数から読み込まれるアプリケーション設定を表します
type Config struct {
	// 基本設定
	Addr       string
	GcpProject string
	LogLevel   string
	LogFormat  string

	// エラー通知設定
	SentryDSN string
	SentryEnv string

	// Slack設定
	VerificationToken string // Secret Manager からも読み込み可
	SlackBotToken     string // Secret Manager からも読み込み可
	SlackAPIURL       string
	SlackIconEmoji    string
	SlackUsername     string
	WelcomeVariant    string

	// チャンネル設定
	AppDevChannel  string
	TestChannel    string
	GeneralChannel string
	IOSChannel     string
	AndroidChannel string
	WebChannel     string

	// GitHub設定
	GitHubAPIURL string
	GitHubOrg    string

	// ダッシュボード設定
	GrafanaURL    string
	GrafanaAPIKey string // Secret Manager からも読み込み可
	DashboardSlug string

	// ストア設定
	Store               string
	FirestoreProjectID  string
	FirestoreDatabaseID string
	FirestoreCollection string
}

// Flags は Config の各項目を埋める CLI フラグを返します
func (c *Config) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP listen address",
			Value:       defaultAddr(),
			Destination: &c.Addr,
			Sources:     cli.EnvVars("SEDAILY_ADDR"),
		},
		&cli.StringFlag{
			Name:        "gcp-project",
			Usage:       "GCP project for Secret Manager (empty secrets are loaded from it)",
			Destination: &c.GcpProject,
			Sources:     cli.EnvVars("GCP_PROJECT"),
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level [debug|info|warn|error]",
			Category:    "Logging",
			Value:       "info",
			Destination: &c.LogLevel,
			Sources:     cli.EnvVars("SEDAILY_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format [json|text]",
			Category:    "Logging",
			Value:       "json",
			Destination: &c.LogFormat,
			Sources:     cli.EnvVars("SEDAILY_LOG_FORMAT"),
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN (error reporting is disabled when empty)",
			Category:    "Logging",
			Destination: &c.SentryDSN,
			Sources:     cli.EnvVars("SEDAILY_SENTRY_DSN", "SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Category:    "Logging",
			Value:       "production",
			Destination: &c.SentryEnv,
			Sources:     cli.EnvVars("SEDAILY_SENTRY_ENV"),
		},

		&cli.StringFlag{
			Name:        "verification-token",
			Usage:       "Shared token sent by Slack with every webhook call",
			Category:    "Slack",
			Destination: &c.VerificationToken,
			Sources:     cli.EnvVars("SEDAILY_VERIFICATION_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token used for chat.postMessage",
			Category:    "Slack",
			Destination: &c.SlackBotToken,
			Sources:     cli.EnvVars("SEDAILY_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-api-url",
			Usage:       "Slack Web API base URL",
			Category:    "Slack",
			Value:       "https://slack.com/api/",
			Destination: &c.SlackAPIURL,
			Sources:     cli.EnvVars("SEDAILY_SLACK_API_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-icon-emoji",
			Usage:       "Icon emoji of the bot identity",
			Category:    "Slack",
			Value:       ":sedaily:",
			Destination: &c.SlackIconEmoji,
			Sources:     cli.EnvVars("SEDAILY_SLACK_ICON_EMOJI"),
		},
		&cli.StringFlag{
			Name:        "slack-username",
			Usage:       "Display name of the bot identity",
			Category:    "Slack",
			Value:       "New Contributor Bot",
			Destination: &c.SlackUsername,
			Sources:     cli.EnvVars("SEDAILY_SLACK_USERNAME"),
		},
		&cli.StringFlag{
			Name:        "welcome-variant",
			Usage:       "Welcome message sent by the welcome command [contributor|general]",
			Category:    "Slack",
			Value:       WelcomeContributor,
			Destination: &c.WelcomeVariant,
			Sources:     cli.EnvVars("SEDAILY_WELCOME_VARIANT"),
		},

		&cli.StringFlag{
			Name:        "app-dev-channel",
			Usage:       "Channel ID of the open source app development channel",
			Category:    "Channels",
			Destination: &c.AppDevChannel,
			Sources:     cli.EnvVars("SEDAILY_APP_DEV_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "test-channel",
			Usage:       "Channel ID treated as an alias of the app development channel",
			Category:    "Channels",
			Destination: &c.TestChannel,
			Sources:     cli.EnvVars("SEDAILY_TEST_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "general-channel",
			Usage:       "Channel ID of the general channel",
			Category:    "Channels",
			Destination: &c.GeneralChannel,
			Sources:     cli.EnvVars("SEDAILY_GENERAL_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "ios-channel",
			Category:    "Channels",
			Destination: &c.IOSChannel,
			Sources:     cli.EnvVars("SEDAILY_IOS_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "android-channel",
			Category:    "Channels",
			Destination: &c.AndroidChannel,
			Sources:     cli.EnvVars("SEDAILY_ANDROID_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "web-channel",
			Category:    "Channels",
			Destination: &c.WebChannel,
			Sources:     cli.EnvVars("SEDAILY_WEB_CHANNEL"),
		},

		&cli.StringFlag{
			Name:        "github-api-url",
			Category:    "GitHub",
			Value:       "https://api.github.com",
			Destination: &c.GitHubAPIURL,
			Sources:     cli.EnvVars("SEDAILY_GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-org",
			Usage:       "Organization whose repositories are listed in the welcome message",
			Category:    "GitHub",
			Value:       "SoftwareEngineeringDaily",
			Destination: &c.GitHubOrg,
			Sources:     cli.EnvVars("SEDAILY_GITHUB_ORG"),
		},

		&cli.StringFlag{
			Name:        "grafana-url",
			Usage:       "Dashboard API base URL",
			Category:    "Dashboard",
			Destination: &c.GrafanaURL,
			Sources:     cli.EnvVars("SEDAILY_GRAFANA_URL"),
		},
		&cli.StringFlag{
			Name:        "grafana-api-key",
			Usage:       "Dashboard API key (bearer)",
			Category:    "Dashboard",
			Destination: &c.GrafanaAPIKey,
			Sources:     cli.EnvVars("SEDAILY_GRAFANA_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "dashboard-slug",
			Category:    "Dashboard",
			Value:       "event-summaries",
			Destination: &c.DashboardSlug,
			Sources:     cli.EnvVars("SEDAILY_DASHBOARD_SLUG"),
		},

		&cli.StringFlag{
			Name:        "store",
			Usage:       "Snapshot cache store [firestore|memory]",
			Category:    "Store",
			Value:       StoreFirestore,
			Destination: &c.Store,
			Sources:     cli.EnvVars("SEDAILY_STORE"),
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Category:    "Store",
			Destination: &c.FirestoreProjectID,
			Sources:     cli.EnvVars("FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Category:    "Store",
			Value:       "(default)",
			Destination: &c.FirestoreDatabaseID,
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Category:    "Store",
			Value:       "snapshots",
			Destination: &c.FirestoreCollection,
			Sources:     cli.EnvVars("FS_COLLECTION_SNAPSHOTS"),
		},
	}
}

// SecretGetter は Secret Manager からシークレットを取得するインターフェースです
type SecretGetter interface {
	GetSecret(ctx context.Context, secretName string) (string, error)
}

// LoadSecrets はフラグ・環境変数で与えられなかったシークレットを Secret Manager から補完します
func (c *Config) LoadSecrets(ctx context.Context, sg SecretGetter) error {
	targets := []struct {
		name string
		dst  *string
	}{
		{SecretVerificationToken, &c.VerificationToken},
		{SecretSlackBotToken, &c.SlackBotToken},
		{SecretGrafanaAPIKey, &c.GrafanaAPIKey},
	}

	for _, t := range targets {
		if *t.dst != "" {
			continue
		}
		v, err := sg.GetSecret(ctx, t.name)
		if err != nil {
			return goerr.Wrap(err, "シークレット取得失敗", goerr.V("name", t.name))
		}
		*t.dst = v
	}

	return nil
}

// Validate は必須項目を検証します
func (c *Config) Validate() error {
	required := map[string]string{
		"verification-token": c.VerificationToken,
		"slack-bot-token":    c.SlackBotToken,
		"app-dev-channel":    c.AppDevChannel,
	}
	for name, v := range required {
		if v == "" {
			return goerr.New("必須設定が未指定です", goerr.V("flag", name))
		}
	}

	switch c.WelcomeVariant {
	case WelcomeContributor:
	case WelcomeGeneral:
		if c.GeneralChannel == "" {
			return goerr.New("general バリアントには general-channel が必要です")
		}
	default:
		return goerr.New("不明な welcome-variant です", goerr.V("variant", c.WelcomeVariant))
	}

	switch c.Store {
	case StoreMemory:
	case StoreFirestore:
		if c.FirestoreProjectID == "" {
			return goerr.New("firestore ストアには firestore-project-id が必要です")
		}
	default:
		return goerr.New("不明な store です", goerr.V("store", c.Store))
	}

	return nil
}

// LogValue はシークレットを含めずに設定内容をログ出力します
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.Addr),
		slog.String("gcp_project", c.GcpProject),
		slog.Bool("sentry_enabled", c.SentryDSN != ""),
		slog.Int("verification_token.len", len(c.VerificationToken)),
		slog.Int("slack_bot_token.len", len(c.SlackBotToken)),
		slog.String("welcome_variant", c.WelcomeVariant),
		slog.String("app_dev_channel", c.AppDevChannel),
		slog.String("general_channel", c.GeneralChannel),
		slog.String("github_org", c.GitHubOrg),
		slog.String("grafana_url", c.GrafanaURL),
		slog.Int("grafana_api_key.len", len(c.GrafanaAPIKey)),
		slog.String("store", c.Store),
		slog.String("firestore_collection", c.FirestoreCollection),
	)
}

// defaultAddr は Cloud Run が渡す PORT 環境変数から待受アドレスを決めます
func defaultAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}
