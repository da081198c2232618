package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/agenda-citas-api/docs"
	"github.com/jhoicas/agenda-citas-api/internal/application/auth"
	"github.com/jhoicas/agenda-citas-api/internal/application/history"
	"github.com/jhoicas/agenda-citas-api/internal/application/inventory"
	"github.com/jhoicas/agenda-citas-api/internal/application/scheduling"
	"github.com/jhoicas/agenda-citas-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/agenda-citas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/agenda-citas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/agenda-citas-api/internal/interfaces/http"
	"github.com/jhoicas/agenda-citas-api/pkg/config"
	"github.com/jhoicas/agenda-citas-api/pkg/logger"
)

// @title           Agenda de Citas API
// @version         1.0
// @description     Agenda de citas con control de conflictos y consumo de inventario por cita.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <token>

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.RunMigrations {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	apptRepo := postgres.NewAppointmentRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	materialRepo := postgres.NewMaterialUsedRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))
	if cfg.Seed.Enabled {
		if err := authUC.EnsureDefaultUsers(ctx, auth.DefaultUsers{
			AdminPassword: cfg.Seed.AdminPassword,
			UserPassword:  cfg.Seed.UserPassword,
		}); err != nil {
			log.Fatal().Err(err).Msg("usuarios por defecto")
		}
	}

	ledgerUC := inventory.NewLedgerUseCase(txRunner, productRepo, movRepo, apptRepo, log.Component("inventory"))
	schedulerUC := scheduling.NewSchedulerUseCase(txRunner, apptRepo, clientRepo, log.Component("scheduling"))

	// PDF: historial de citas y materiales del cliente
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	historyUC := history.NewHistoryUseCase(clientRepo, apptRepo, materialRepo, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: strings.Join([]string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, fiber.HeaderAuthorization}, ", "),
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Agenda de Citas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(userRepo),
		ClientUC:    usecase.NewClientUseCase(clientRepo),
		ProductUC:   usecase.NewProductUseCase(txRunner, productRepo, batchRepo),
		SchedulerUC: schedulerUC,
		LedgerUC:    ledgerUC,
		HistoryUC:   historyUC,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log.Component("http"),
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
