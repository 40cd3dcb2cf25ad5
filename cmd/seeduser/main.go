// cmd/seeduser/main.go: runs the startup bootstrap without serving HTTP.
// Creates the admin / cashier accounts and the default catalog if missing.
// Uso: go run ./cmd/seeduser
package main

import (
	"context"
	"os"

	"github.com/pab0412/api-gamer-zeta/internal/config"
	"github.com/pab0412/api-gamer-zeta/internal/infra"
	"github.com/pab0412/api-gamer-zeta/internal/repository"
	"github.com/pab0412/api-gamer-zeta/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}

	res, err := service.Bootstrap(context.Background(),
		repository.NewUsuarioRepository(db),
		repository.NewProductoRepository(db),
		service.BootstrapConfig{
			AdminPassword:  cfg.SeedAdminPassword,
			CajeroPassword: cfg.SeedCajeroPassword,
		})
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap")
	}
	if len(res.Usuarios) == 0 && res.Productos == 0 {
		log.Info().Msg("nada que sembrar: usuarios y catalogo ya existen")
		return
	}
	log.Info().Strs("usuarios", res.Usuarios).Int("productos", res.Productos).Msg("datos iniciales creados")
}
