// seed crea el usuario dueño, las categorías base y un producto de ejemplo.
// Es idempotente: lo que ya existe se deja como está.
//
// Uso: go run ./cmd/seed [-password secreto]
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/nandwere/stock-pos/internal/application/auth"
	"github.com/nandwere/stock-pos/internal/domain/entity"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/nandwere/stock-pos/internal/infrastructure/postgres"
	"github.com/nandwere/stock-pos/pkg/config"
	"github.com/nandwere/stock-pos/pkg/logger"
	"github.com/shopspring/decimal"
)

const ownerEmail = "admin@stockpos.local"

var seedCategories = []string{"Cerials", "Floor", "Cooking Oil", "Rice"}

func main() {
	password := flag.String("password", "admin123", "contraseña del usuario dueño")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	s := seeder{
		users:      postgres.NewUserRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		products:   postgres.NewProductRepository(pool),
		log:        log,
		now:        time.Now().UTC(),
	}
	if err := s.run(ctx, *password); err != nil {
		log.Error().Err(err).Msg("seed fallido")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Msg("seed completado")
}

type seeder struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	log        *logger.Logger
	now        time.Time
}

func (s seeder) run(ctx context.Context, password string) error {
	if err := s.owner(ctx, password); err != nil {
		return err
	}
	var riceID string
	for _, name := range seedCategories {
		id, err := s.category(ctx, name)
		if err != nil {
			return err
		}
		if name == "Rice" {
			riceID = id
		}
	}
	return s.product(ctx, &entity.Product{
		Name:         "Kamande",
		SKU:          "KDE-111",
		Barcode:      "5449000000996",
		CategoryID:   riceID,
		Unit:         "Kg",
		CostPrice:    decimal.NewFromInt(170),
		SellingPrice: decimal.NewFromInt(200),
		CurrentStock: decimal.NewFromInt(60),
		ReorderLevel: decimal.NewFromInt(2),
		IsActive:     true,
	})
}

func (s seeder) owner(ctx context.Context, password string) error {
	existing, err := s.users.GetByEmail(ctx, ownerEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		s.log.Info().Str("email", ownerEmail).Msg("usuario dueño ya existe")
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Email:        ownerEmail,
		PasswordHash: hash,
		Name:         "Admin",
		Role:         entity.RoleOwner,
		IsActive:     true,
		CreatedAt:    s.now,
		UpdatedAt:    s.now,
	}); err != nil {
		return err
	}
	s.log.Info().Str("email", ownerEmail).Msg("usuario dueño creado")
	return nil
}

func (s seeder) category(ctx context.Context, name string) (string, error) {
	existing, err := s.categories.GetByName(ctx, name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: s.now, UpdatedAt: s.now}
	if err := s.categories.Create(ctx, c); err != nil {
		return "", err
	}
	s.log.Info().Str("category", name).Msg("categoría creada")
	return c.ID, nil
}

func (s seeder) product(ctx context.Context, p *entity.Product) error {
	existing, err := s.products.GetBySKU(ctx, p.SKU)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	p.ID = uuid.New().String()
	p.CreatedAt, p.UpdatedAt = s.now, s.now
	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	s.log.Info().Str("sku", p.SKU).Msg("producto creado")
	return nil
}
