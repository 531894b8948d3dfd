package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"sedaily-bot/project/domain"
	"sedaily-bot/project/handler"
	"sedaily-bot/project/infrastructure/config"
	"sedaily-bot/project/infrastructure/errutil"
	"sedaily-bot/project/infrastructure/github"
	"sedaily-bot/project/infrastructure/grafana"
	"sedaily-bot/project/infrastructure/logging"
	"sedaily-bot/project/infrastructure/secret"
	"sedaily-bot/project/infrastructure/slack"
	"sedaily-bot/project/infrastructure/store"
	"sedaily-bot/project/service"
)

// 外部API呼び出し1回あたりのタイムアウト
const outboundTimeout = 30 * time.Second

// shutdownTimeout は SIGTERM 受信後に処理中リクエストを待つ時間です
const shutdownTimeout = 10 * time.Second

func main() {
	// ローカル開発用。.env が無くても続行する
	_ = godotenv.Load()

	// 設定読み込み前のエラーも出力されるよう標準エラーへ仮置きする
	logging.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	var cfg config.Config

	cmd := &cli.Command{
		Name:  "sedaily-bot",
		Usage: "Software Engineering Daily Slack bot",
		Flags: cfg.Flags(),
		Action: func(ctx context.Context, _ *cli.Command) error {
			return run(ctx, &cfg)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logging.Default().Error("起動失敗", "error", err)
		os.Exit(1)
	}
}

// closer は終了時に閉じるリソースです
type closer interface {
	Close() error
}

func run(ctx context.Context, cfg *config.Config) error {
	// 1. ロガーを初期化
	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	flush, err := errutil.InitSentry(cfg.SentryDSN, cfg.SentryEnv)
	if err != nil {
		return err
	}
	defer flush()

	// 2. 空のシークレットを Secret Manager から補完
	if cfg.GcpProject != "" {
		secretMgr, err := secret.NewManager(ctx, cfg.GcpProject)
		if err != nil {
			return err
		}
		loadErr := cfg.LoadSecrets(ctx, secretMgr)
		_ = secretMgr.Close()
		if loadErr != nil {
			return loadErr
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Info("設定読み込み完了", "config", cfg)

	// 3. キャッシュストアを初期化
	repo, err := newSnapshotRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("ストアのクローズ失敗", "error", err)
		}
	}()

	// 4. 外部APIクライアント
	httpClient := &http.Client{Timeout: outboundTimeout}
	slackClient := slack.NewSlackClient(cfg, httpClient)
	githubClient := github.NewGitHubClient(cfg, httpClient)
	grafanaClient := grafana.NewGrafanaClient(cfg, httpClient)

	// 5. サービス層
	welcomeService := service.NewWelcomeService(cfg, slackClient, githubClient)
	snapshotService := service.NewSnapshotService(repo, grafanaClient)
	commandService := service.NewCommandService(slackClient, welcomeService, snapshotService)

	// 6. HTTP ハンドラー
	router := handler.NewRouter(
		handler.NewEventsHandler(cfg.VerificationToken, welcomeService),
		handler.NewCommandsHandler(cfg.VerificationToken, commandService),
	)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
	}

	return serve(ctx, server)
}

// snapshotRepository はキャッシュストアとそのクローズ処理をまとめたものです
type snapshotRepository interface {
	domain.SnapshotRepository
	closer
}

func newSnapshotRepository(ctx context.Context, cfg *config.Config) (snapshotRepository, error) {
	switch cfg.Store {
	case config.StoreMemory:
		logging.Default().Warn("メモリストアを使用します。再起動でキャッシュは失われます")
		return store.NewMemoryRepo(), nil
	case config.StoreFirestore:
		return store.NewFirestoreRepo(ctx, cfg)
	}
	return nil, goerr.New("不明な store です", goerr.V("store", cfg.Store))
}

// serve はシグナルを受けるまでサーバーを動かし、受信後はグレースフルに停止します
func serve(ctx context.Context, server *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logging.Default().Info("サーバー起動", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return goerr.Wrap(err, "サーバーエラー", goerr.V("addr", server.Addr))
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		logging.Default().Info("サーバー停止中")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "グレースフルシャットダウン失敗")
		}
		return nil
	})

	return eg.Wait()
}
