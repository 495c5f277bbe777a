// import carga productos o movimientos desde una hoja Excel sin pasar por la API.
//
// Uso: go run ./cmd/import -kind products|movements -file inventario.xlsx [-user importador]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/bootstrap"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	kind := flag.String("kind", "", "products o movements")
	path := flag.String("file", "", "ruta del archivo .xlsx")
	user := flag.String("user", "import-cli", "autor registrado en los movimientos")
	flag.Parse()

	if *path == "" || (*kind != "products" && *kind != "movements") {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("import")

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Str("file", *path).Msg("abrir archivo")
	}
	defer f.Close()

	ctx := context.Background()
	storage, err := bootstrap.OpenStorage(ctx, cfg, cfg.App.AutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer storage.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	ledger, err := bootstrap.Build(cfg, storage, bootstrap.Options{Redis: rdb})
	if err != nil {
		log.Fatal().Err(err).Msg("configuración")
	}

	var res *dto.ImportResultDTO
	if *kind == "products" {
		res, err = ledger.Importer.ImportProducts(ctx, f)
	} else {
		res, err = ledger.Importer.ImportMovements(ctx, f, *user)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("importación fallida")
	}
	for _, rowErr := range res.Errors {
		log.Warn().Int("row", rowErr.Row).Msg(rowErr.Message)
	}
	log.Info().
		Str("kind", *kind).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Int("errors", len(res.Errors)).
		Msg("importación completada")
}
