package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/jhoicas/agenda-citas-api/internal/application/auth"
	"github.com/jhoicas/agenda-citas-api/internal/application/history"
	"github.com/jhoicas/agenda-citas-api/internal/application/inventory"
	"github.com/jhoicas/agenda-citas-api/internal/application/scheduling"
	"github.com/jhoicas/agenda-citas-api/internal/application/usecase"
	"github.com/jhoicas/agenda-citas-api/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ClientUC    *usecase.ClientUseCase
	ProductUC   *usecase.ProductUseCase
	SchedulerUC *scheduling.SchedulerUseCase
	LedgerUC    *inventory.LedgerUseCase
	HistoryUC   *history.HistoryUseCase
	JWTSecret   string
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	log := deps.Log

	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, log)
	clientHandler := NewClientHandler(deps.ClientUC, log)
	historyHandler := NewHistoryHandler(deps.HistoryUC, log)
	appointmentHandler := NewAppointmentHandler(deps.SchedulerUC, deps.LedgerUC, log)
	productHandler := NewProductHandler(deps.ProductUC, deps.LedgerUC, log)
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, log)

	// Auth (público)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	create := RequirePermission(access.PermCreate)
	read := RequirePermission(access.PermRead)
	update := RequirePermission(access.PermUpdate)
	remove := RequirePermission(access.PermDelete)

	// Users
	users := protected.Group("/users")
	users.Get("/me", authHandler.Me)
	users.Post("/", RequireRole(access.RoleAdmin), authHandler.CreateUser)
	users.Get("/", RequireRole(access.RoleAdmin), authHandler.ListUsers)

	// Clients
	clients := protected.Group("/clients")
	clients.Get("/", read, clientHandler.List)
	clients.Post("/", create, clientHandler.Create)
	clients.Get("/document/:document", read, clientHandler.GetByDocument)
	clients.Get("/:id/history", read, historyHandler.ClientHistory)
	clients.Get("/:id/history.pdf", read, historyHandler.ClientHistoryPDF)
	clients.Get("/:id", read, clientHandler.GetByID)
	clients.Put("/:id", update, clientHandler.Update)
	clients.Delete("/:id", remove, clientHandler.Delete)

	// Appointments
	appts := protected.Group("/appointments")
	appts.Get("/", read, appointmentHandler.List)
	appts.Post("/", create, appointmentHandler.Create)
	appts.Post("/check-conflict", read, appointmentHandler.CheckConflict)
	appts.Get("/:id", read, appointmentHandler.GetByID)
	appts.Put("/:id", update, appointmentHandler.Update)
	appts.Delete("/:id", remove, appointmentHandler.Delete)
	appts.Post("/:id/cancel", update, appointmentHandler.Cancel)
	appts.Post("/:id/complete", update, appointmentHandler.Complete)
	appts.Post("/:id/materials", create, appointmentHandler.ConsumeMaterials)

	// Products
	products := protected.Group("/products")
	products.Get("/", read, productHandler.List)
	products.Post("/", create, productHandler.Create)
	products.Get("/low-stock", read, productHandler.LowStock)
	products.Get("/:id", read, productHandler.GetByID)
	products.Put("/:id", update, productHandler.Update)
	products.Delete("/:id", remove, productHandler.Delete)
	products.Get("/:id/ledger", read, productHandler.Ledger)

	// Inventory
	protected.Get("/movements", read, inventoryHandler.ListMovements)
	protected.Post("/movements", create, inventoryHandler.RegisterMovement)
	protected.Post("/batches", create, inventoryHandler.CreateBatch)
}
