package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"expensa.org/internal/auth"
	"expensa.org/internal/config"
	"expensa.org/internal/expense"
	"expensa.org/internal/httpapi"
	"expensa.org/internal/mail"
	"expensa.org/internal/obs"
	"expensa.org/internal/user"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	// Инициализация observability (регистрация метрик, JSON-логгер и т.п.)
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Подключение к БД (если задан DSN), чтобы /readyz мог пинговать БД
	var db *sql.DB
	if cfg.DatabaseDSN != "" {
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	var users user.Store
	var expenses expense.Store
	if db != nil {
		users = user.NewPGStore(db)
		expenses = expense.NewPGStore(db)
	} else {
		log.Println("EXPENSA_PG_DSN is not set, using in-memory stores")
		users = user.NewInMemory()
		expenses = expense.NewInMemory()
	}

	tokens, err := auth.NewTokenService(cfg.AuthSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	var mailer mail.Sender
	if cfg.MailConfigured() {
		mailer = mail.NewSMTPSender(cfg)
	} else {
		log.Println("EXPENSA_SMTP_HOST is not set, password reset mail is disabled")
	}

	authSvc := auth.NewService(users, tokens, mailer,
		auth.WithResetTTL(cfg.ResetTTL),
		auth.WithResetBaseURL(cfg.ResetBaseURL),
	)

	// HTTP API
	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, authSvc, expenses)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(), // уже обёрнут метриками в httpapi
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting expensa-api %s on %s", version, srv.Addr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// gRPC health listener (опционально)
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("grpc listen: %v", err)
		}
		grpcSrv := httpapi.NewGRPCServer(httpapi.ReadyProbe{DB: db})
		go func() {
			log.Printf("Starting gRPC health on %s", cfg.GRPCAddr)
			if err := grpcSrv.Serve(ctx, lis); err != nil {
				log.Printf("grpc serve: %v", err)
			}
		}()
	}

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
