package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/jimiolaniyan/accounts/auth"
	"github.com/jimiolaniyan/accounts/config"
	"github.com/jimiolaniyan/accounts/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "accounts",
		Short:         "Account registration, login and token-gated access over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			return serve(cfg)
		},
	}
	config.AddFlags(cmd)
	return cmd
}

func serve(cfg *config.Config) error {
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Error("mongodb connect", zap.Error(err))
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := client.Ping(ctx, nil); err != nil {
		log.Error("mongodb ping", zap.Error(err))
		return err
	}
	log.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))

	c := client.Database(cfg.MongoDatabase).Collection("users")
	if err := auth.EnsureIndexes(ctx, c); err != nil {
		log.Error("mongodb indexes", zap.Error(err))
		return err
	}

	var passwords auth.PasswordScheme = auth.ClearText{}
	if cfg.PasswordHashing {
		passwords = auth.Bcrypt{Cost: cfg.BcryptCost}
	}
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
	svc := auth.NewService(auth.NewMongoIdentityRepository(c), tokens, passwords)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(svc, tokens, log),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			log.Error("server error", zap.Error(err))
			return err
		}
	case <-sigCtx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
