// seed crea el usuario administrador inicial y, opcionalmente, depósitos de ejemplo.
// Es idempotente: lo que ya existe se deja como está.
//
// Uso: go run ./cmd/seed -username admin -password '...' [-depots "Central,Sucursal"]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/bootstrap"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	username := flag.String("username", envOr("SEED_ADMIN_USERNAME", "admin"), "usuario administrador")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "password del administrador (mínimo 8 caracteres)")
	email := flag.String("email", envOr("SEED_ADMIN_EMAIL", "admin@localhost"), "email del administrador")
	depots := flag.String("depots", "", "depósitos a crear, separados por coma")
	flag.Parse()

	if len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "password requerido (-password o SEED_ADMIN_PASSWORD), mínimo 8 caracteres")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	ctx := context.Background()
	storage, err := bootstrap.OpenStorage(ctx, cfg, cfg.App.AutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer storage.Close()

	ledger, err := bootstrap.Build(cfg, storage, bootstrap.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("configuración")
	}

	_, err = ledger.Auth.RegisterUser(ctx, dto.CreateUserRequest{
		Username: *username,
		Email:    *email,
		Password: *password,
		IsAdmin:  true,
	})
	switch {
	case errors.Is(err, domain.ErrConstraint):
		log.Info().Str("username", *username).Msg("el administrador ya existe")
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	default:
		log.Info().Str("username", *username).Msg("administrador creado")
	}

	for _, name := range strings.Split(*depots, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		_, err := ledger.Depots.Create(ctx, dto.CreateDepotRequest{Name: name})
		switch {
		case errors.Is(err, domain.ErrConstraint):
			log.Info().Str("depot", name).Msg("el depósito ya existe")
		case err != nil:
			log.Fatal().Err(err).Str("depot", name).Msg("crear depósito")
		default:
			log.Info().Str("depot", name).Msg("depósito creado")
		}
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
