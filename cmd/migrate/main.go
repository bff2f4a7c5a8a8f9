// migrate aplica las migraciones embebidas de PostgreSQL.
//
// Uso: go run ./cmd/migrate [up|down|status|version]
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nandwere/stock-pos/internal/infrastructure/postgres"
	"github.com/nandwere/stock-pos/pkg/config"
	"github.com/nandwere/stock-pos/pkg/logger"
)

func main() {
	flag.Parse()
	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	// Sin .env se usan solo las variables del entorno.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := postgres.Migrate(ctx, cfg.DB.ConnectionString(), command); err != nil {
		log.Error().Err(err).Str("command", command).Msg("migración fallida")
		cancel()
		os.Exit(1)
	}
	log.Info().Str("command", command).Msg("migración completada")
}
