package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pab0412/api-gamer-zeta/internal/config"
	"github.com/pab0412/api-gamer-zeta/internal/infra"
	"github.com/pab0412/api-gamer-zeta/internal/repository"
	"github.com/pab0412/api-gamer-zeta/internal/router"
	"github.com/pab0412/api-gamer-zeta/internal/service"
	"github.com/pab0412/api-gamer-zeta/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title                       Gamer Zeta API
// @version                     1.0
// @description                 Punto de venta: usuarios, catálogo, ventas y boletas.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	boletaRepo := repository.NewBoletaRepository(db)

	// Seed accounts and catalog once, before accepting traffic.
	res, err := service.Bootstrap(ctx, usuarioRepo, productoRepo, service.BootstrapConfig{
		AdminPassword:  cfg.SeedAdminPassword,
		CajeroPassword: cfg.SeedCajeroPassword,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}
	log.Info().Strs("usuarios", res.Usuarios).Int("productos", res.Productos).Msg("bootstrap done")

	// Async receipt email: composition root wires mailer, breaker and pool.
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
	mailer := infra.NewMailer(cfg, smtpCB)
	dispatcher := worker.NewDispatcher(rdb)
	if !mailer.Enabled() {
		log.Warn().Msg("SMTP_HOST not set: receipt emails will land in the DLQ")
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.NewEmailWorker(boletaRepo, mailer, cfg.PDFStoragePath))

	scheduler, err := worker.StartScheduler(ctx, worker.SchedulerConfig{Ventas: ventaRepo, RDB: rdb})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	r := router.New(cfg, router.Deps{
		DB:          db,
		RDB:         rdb,
		SMTPBreaker: smtpCB,
		Dispatcher:  dispatcher,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Gamer Zeta API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	scheduler.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
