package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-client/internal/config"
	"github.com/spec-kit/workforce-client/internal/devstub"
	"github.com/spec-kit/workforce-client/internal/domain"
	"github.com/spec-kit/workforce-client/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	stub := devstub.New(cfg.Stub, logger)

	seed := []struct {
		email    string
		password string
		user     domain.UserRecord
		plan     domain.SubscriptionPlan
	}{
		{
			email:    "owner@acme.test",
			password: "owner-pass",
			user: domain.UserRecord{
				FirstName: "Olive", LastName: "Owner",
				Role: domain.RoleOwner, TenantID: "acme",
				EmailVerified: true, CreatedAt: time.Now(),
			},
			plan: domain.PlanPro,
		},
		{
			email:    "employee@acme.test",
			password: "employee-pass",
			user: domain.UserRecord{
				FirstName: "Evan", LastName: "Employee",
				Role: domain.RoleEmployee, TenantID: "acme",
				EmailVerified: true, CreatedAt: time.Now(),
			},
			plan: domain.PlanFree,
		},
	}
	for _, s := range seed {
		if err := stub.SeedUser(s.email, s.password, s.user, s.plan); err != nil {
			logger.Fatal("failed to seed user", zap.String("email", s.email), zap.Error(err))
		}
	}

	go func() {
		logger.Info("stub backend listening", zap.String("addr", cfg.Stub.Addr))
		if err := stub.Listen(cfg.Stub.Addr); err != nil {
			logger.Fatal("stub listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = stub.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
