package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/joho/godotenv"
	"github.com/nandwere/stock-pos/internal/application/auth"
	"github.com/nandwere/stock-pos/internal/application/inventory"
	"github.com/nandwere/stock-pos/internal/application/usecase"
	"github.com/nandwere/stock-pos/internal/domain/repository"
	"github.com/nandwere/stock-pos/internal/infrastructure/cache"
	"github.com/nandwere/stock-pos/internal/infrastructure/memory"
	infrapdf "github.com/nandwere/stock-pos/internal/infrastructure/pdf"
	"github.com/nandwere/stock-pos/internal/infrastructure/postgres"
	httpRouter "github.com/nandwere/stock-pos/internal/interfaces/http"
	"github.com/nandwere/stock-pos/pkg/config"
	"github.com/nandwere/stock-pos/pkg/logger"
	"github.com/nandwere/stock-pos/pkg/money"
)

// stores repositorios sueltos y el runner de transacciones del backend elegido.
type stores struct {
	txRunner    inventory.TxRunner
	products    repository.ProductRepository
	categories  repository.CategoryRepository
	users       repository.UserRepository
	sales       repository.SaleRepository
	adjustments repository.StockAdjustmentRepository
	counts      repository.StockCountRepository
	close       func()
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.Store.UseMemory() {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.New()
		return stores{
			txRunner:    s,
			products:    s.Products(),
			categories:  s.Categories(),
			users:       s.Users(),
			sales:       s.Sales(),
			adjustments: s.Adjustments(),
			counts:      s.Counts(),
			close:       func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	return stores{
		txRunner:    postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout),
		products:    postgres.NewProductRepository(pool),
		categories:  postgres.NewCategoryRepository(pool),
		users:       postgres.NewUserRepository(pool),
		sales:       postgres.NewSaleRepository(pool),
		adjustments: postgres.NewStockAdjustmentRepository(pool),
		counts:      postgres.NewStockCountRepository(pool),
		close:       pool.Close,
	}
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	st := openStores(ctx, cfg, log)
	defer st.close()

	// Caché de stock opcional: se invalida desde el libro después de cada commit.
	var (
		notifier   inventory.StockNotifier
		stockCache usecase.StockCache
	)
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		sc := cache.NewStockCache(client, cfg.Redis.TTL, log)
		notifier, stockCache = sc, sc
	}

	ledger := inventory.NewLedgerUseCase(st.txRunner, notifier, inventory.LedgerConfig{
		AllowNegativeStock: cfg.Ledger.AllowNegativeStock,
		TaxRate:            cfg.Shop.TaxRate,
		TxTimeout:          cfg.Ledger.TxTimeout,
	}, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(st.products, st.sales, inventory.ReplenishmentConfig{
		LeadTimeDays:    cfg.Shop.LeadTimeDays,
		SafetyStockDays: cfg.Shop.SafetyStockDays,
		LookbackDays:    cfg.Shop.SalesLookbackDays,
	})

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.Shop.Name, money.MustFormatter(cfg.Shop.Currency, cfg.Shop.Locale))

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:         cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, log)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock POS API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  usecase.NewProductUseCase(st.products, st.sales, stockCache),
		CategoryUC: usecase.NewCategoryUseCase(st.categories),
		UserUC:     usecase.NewUserUseCase(st.users),
		SaleUC:     usecase.NewSaleUseCase(ledger, st.sales, pdfGenerator, log),
		StockUC:    usecase.NewStockUseCase(ledger, st.products, st.sales, st.adjustments, st.counts),
		ReportUC:   usecase.NewReportUseCase(st.products, st.sales, st.counts, replenishmentUC, pdfGenerator),
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
