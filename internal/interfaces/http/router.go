package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retail-pos/internal/application/auth"
	"github.com/tu-usuario/retail-pos/internal/application/sales"
	"github.com/tu-usuario/retail-pos/internal/application/shipments"
	"github.com/tu-usuario/retail-pos/internal/application/usecase"
	"github.com/tu-usuario/retail-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	CustomerUC *usecase.CustomerUseCase
	SupplierUC *usecase.SupplierUseCase
	EmployeeUC *usecase.EmployeeUseCase
	SalesUC    *sales.CreateTransactionUseCase
	ShipmentUC *shipments.ReceiveShipmentUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; escritura restringida a admin y bodeguero)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Create)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/", customerHandler.Create)

	// Suppliers (protegido; escritura restringida a admin y bodeguero)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), supplierHandler.Create)
	suppliers.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), supplierHandler.Update)
	suppliers.Delete("/:id", RequireRole(entity.RoleAdmin), supplierHandler.Delete)

	// Employees (protegido; solo admin)
	employees := protected.Group("/employees", RequireRole(entity.RoleAdmin))
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC)
	employees.Get("/", employeeHandler.List)
	employees.Get("/:id", employeeHandler.GetByID)
	employees.Post("/", employeeHandler.Create)
	employees.Patch("/:id/status", employeeHandler.SetStatus)

	// Sales (protegido; cualquier rol autenticado puede vender)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC)
	salesGroup.Get("/", salesHandler.List)
	salesGroup.Get("/:id", salesHandler.GetByID)
	salesGroup.Post("/", salesHandler.Create)

	// Shipments (protegido; restringido a admin y bodeguero)
	shipmentsGroup := protected.Group("/shipments", RequireRole(entity.RoleAdmin, entity.RoleBodeguero))
	shipmentHandler := NewShipmentHandler(deps.ShipmentUC)
	shipmentsGroup.Get("/", shipmentHandler.List)
	shipmentsGroup.Get("/:id", shipmentHandler.GetByID)
	shipmentsGroup.Post("/", shipmentHandler.Create)
	shipmentsGroup.Delete("/:id", shipmentHandler.Delete)
}
