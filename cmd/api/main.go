package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicore/farmacia-api/internal/application/auth"
	"github.com/clinicore/farmacia-api/internal/application/catalog"
	"github.com/clinicore/farmacia-api/internal/application/dispense"
	"github.com/clinicore/farmacia-api/internal/application/kardex"
	"github.com/clinicore/farmacia-api/internal/application/replenishment"
	"github.com/clinicore/farmacia-api/internal/domain/repository"
	"github.com/clinicore/farmacia-api/internal/infrastructure/excel"
	"github.com/clinicore/farmacia-api/internal/infrastructure/memory"
	"github.com/clinicore/farmacia-api/internal/infrastructure/postgres"
	httpRouter "github.com/clinicore/farmacia-api/internal/interfaces/http"
	"github.com/clinicore/farmacia-api/pkg/config"
	"github.com/clinicore/farmacia-api/pkg/idgen"
	"github.com/clinicore/farmacia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		catalogTx    catalog.TxRunner
		dispenseTx   dispense.TxRunner
		itemRepo     repository.ItemRepository
		movementRepo repository.MovementRepository
		priceRepo    repository.PriceRepository
		userRepo     repository.UserRepository
	)
	if cfg.DB.InMemory() {
		// Sin PostgreSQL configurado: almacén en memoria (desarrollo/demo).
		log.Warn().Msg("DATABASE_URL no configurado, usando almacén en memoria")
		store := memory.NewStore()
		catalogTx = store
		dispenseTx = store
		itemRepo = store.Items()
		movementRepo = store.Movements()
		priceRepo = store.Prices()
		userRepo = store.Users()
	} else {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		txRunner := postgres.NewTxRunner(pool)
		catalogTx = txRunner
		dispenseTx = txRunner
		itemRepo = postgres.NewItemRepository(pool)
		movementRepo = postgres.NewMovementRepository(pool)
		priceRepo = postgres.NewPriceRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
	}

	ids := idgen.UUID{}
	catalogUC := catalog.NewUseCase(catalogTx, itemRepo, ids)
	dispenseUC := dispense.NewUseCase(dispenseTx, priceRepo, ids)
	kardexUC := kardex.NewUseCase(movementRepo, excel.NewKardexExporter())
	replenishmentUC := replenishment.NewUseCase(itemRepo)
	authUC := auth.NewUseCase(userRepo, ids, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia Core API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:       catalogUC,
		DispenseUC:      dispenseUC,
		KardexUC:        kardexUC,
		ReplenishmentUC: replenishmentUC,
		AuthUC:          authUC,
		JWTSecret:       cfg.JWT.Secret,
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
