package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/creativityhunt/creahunt/internal/config"
	"github.com/creativityhunt/creahunt/internal/db"
	"github.com/creativityhunt/creahunt/internal/filestore"
	"github.com/creativityhunt/creahunt/internal/handler"
	"github.com/creativityhunt/creahunt/internal/job"
	"github.com/creativityhunt/creahunt/internal/middleware"
	"github.com/creativityhunt/creahunt/internal/oauth"
	"github.com/creativityhunt/creahunt/internal/repo"
	"github.com/creativityhunt/creahunt/internal/schedule"
	"github.com/creativityhunt/creahunt/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "creahunt",
		Short: "creativity hunt backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run creativity hunt server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := setup(configPath)
			if err != nil {
				return err
			}
			return runServer(cfg, conn)
		},
	}
	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "load bundled category and tool fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := setup(configPath)
			if err != nil {
				return err
			}
			fixtures := service.NewFixtureService(repo.NewCategoryRepo(conn), repo.NewToolRepo(conn))
			return fixtures.Seed(context.Background())
		},
	}
	seedCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func setup(configPath string) (*config.Config, *sql.DB, error) {
	if configPath == "" {
		return nil, nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return cfg, conn, nil
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_host", cfg.Database.Host),
		zap.String("asset_store", cfg.AssetStore.Type),
	)

	userRepo := repo.NewUserRepo(conn)
	oauthRepo := repo.NewOAuthRepo(conn)
	categoryRepo := repo.NewCategoryRepo(conn)
	toolRepo := repo.NewToolRepo(conn)

	sessionTTL := time.Hour * time.Duration(cfg.SessionTTLHours)
	mailSender := service.NewEmailSender(cfg.Mail)
	authService := service.NewAuthService(userRepo, mailSender, []byte(cfg.JWTSecret), sessionTTL)

	oauthProviders := map[string]oauth.Provider{}
	client := &http.Client{Timeout: 10 * time.Second}
	for name, pcfg := range map[string]config.OAuthProviderConfig{
		"google": cfg.OAuth.Google,
		"github": cfg.OAuth.Github,
	} {
		if !pcfg.Enable {
			continue
		}
		provider, err := oauth.NewProvider(name, oauth.ProviderArgs{Config: oauth.ProviderConfig{
			ClientID:     pcfg.ClientID,
			ClientSecret: pcfg.ClientSecret,
			RedirectURL:  pcfg.RedirectURL,
			Scopes:       pcfg.Scopes,
		}, Client: client})
		if err != nil {
			logutil.GetLogger(context.Background()).Error("init oauth provider failed",
				zap.String("provider", name), zap.Error(err))
			continue
		}
		oauthProviders[name] = provider
	}
	oauthService := service.NewOAuthService(userRepo, oauthRepo, []byte(cfg.JWTSecret), sessionTTL, oauthProviders)

	toolService, err := service.NewToolService(toolRepo, categoryRepo)
	if err != nil {
		return fmt.Errorf("init tool service: %w", err)
	}
	categoryService := service.NewCategoryService(categoryRepo)

	store, err := filestore.New(cfg.AssetStore)
	if err != nil {
		return fmt.Errorf("init asset store: %w", err)
	}

	deps := handler.RouterDeps{
		Auth:       handler.NewAuthHandler(authService),
		OAuth:      handler.NewOAuthHandler(oauthService),
		Tools:      handler.NewToolHandler(toolService),
		Categories: handler.NewCategoryHandler(categoryService),
		Assets:     handler.NewAssetHandler(store),
		JWTSecret:  []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registrar := schedule.NewRegistrar()
	registrar.Register(ctx,
		schedule.Task{Job: job.NewDBHealthJob(conn), Spec: cfg.HealthCheckSpec},
		schedule.Task{Job: job.NewMailHealthJob(mailSender), Spec: cfg.HealthCheckSpec},
	)

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	registrar.Stop()
	return nil
}
