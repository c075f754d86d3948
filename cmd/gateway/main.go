package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/mind-engage/examprep/internal/api/http"
	auth "github.com/mind-engage/examprep/internal/auth/middleware"
	"github.com/mind-engage/examprep/internal/config"
	"github.com/mind-engage/examprep/internal/db"
	"github.com/mind-engage/examprep/internal/evaluation"
	"github.com/mind-engage/examprep/internal/history"
	"github.com/mind-engage/examprep/internal/logger"
	"github.com/mind-engage/examprep/internal/marking"
	"github.com/mind-engage/examprep/internal/questions"
)

var version = "dev"

func main() {
	if err := config.LoadDotEnv(os.Getenv("DOTENV_FILE")); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg := config.FromEnv()

	host, _ := os.Hostname()
	lg := logger.New(logger.NewStdLogger(nil), logger.RollbarConfig{
		Token:       cfg.RollbarToken,
		Environment: cfg.Env,
		Host:        host,
		CodeVersion: version,
	})
	if rl, ok := lg.(*logger.RollbarLogger); ok {
		defer rl.Close()
	}

	// --- Question types ---
	reg, err := questions.Load(cfg.QuestionTypesFile)
	if err != nil {
		log.Fatalf("question types: %v", err)
	}
	for _, msg := range reg.Inconsistencies() {
		lg.Warn("question type configuration: " + msg)
	}

	// --- Marking service ---
	if cfg.MarkingAPIKey == "" {
		if cfg.MarkingRequireAPIKey {
			log.Fatal("MARKING_API_KEY is not set and MARKING_REQUIRE_API_KEY=true")
		}
		lg.Warn("MARKING_API_KEY is not set; marking requests will be unauthenticated")
	}
	client := marking.New(marking.Config{
		BaseURL: cfg.MarkingBaseURL,
		APIKey:  cfg.MarkingAPIKey,
		Timeout: cfg.MarkingTimeout,
	})
	svc := evaluation.New(reg, client, evaluation.WithLogger(lg))

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	handler := api.NewRouter(api.RouterConfig{
		Auth:            auth.NewAuthService(cfg.AuthHMACSecret),
		DB:              dbh,
		Catalog:         reg,
		Evaluator:       svc,
		History:         history.NewSQLStore(dbh, nil),
		Log:             lg,
		CORSOrigins:     cfg.CORSOrigins(),
		EnableLocalAuth: cfg.EnableLocalAuth,
		EnableGuestAuth: cfg.EnableGuestAuth,
		AccessLog:       true,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Printf("listening on %s (mode=%s, db=%s, question_types=%d, marking=%s)",
			cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, reg.Len(), cfg.MarkingBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown", err)
	}
}
