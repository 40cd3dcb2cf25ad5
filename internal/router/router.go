package router

import (
	"time"

	"github.com/pab0412/api-gamer-zeta/internal/config"
	"github.com/pab0412/api-gamer-zeta/internal/handler"
	"github.com/pab0412/api-gamer-zeta/internal/infra"
	"github.com/pab0412/api-gamer-zeta/internal/middleware"
	"github.com/pab0412/api-gamer-zeta/internal/model"
	"github.com/pab0412/api-gamer-zeta/internal/repository"
	"github.com/pab0412/api-gamer-zeta/internal/service"
	"github.com/pab0412/api-gamer-zeta/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure handles built by the composition root.
// RDB, SMTPBreaker and Dispatcher may be nil.
type Deps struct {
	DB          *gorm.DB
	RDB         *redis.Client
	SMTPBreaker *infra.CircuitBreaker
	Dispatcher  *worker.Dispatcher
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(deps.DB)
	productoRepo := repository.NewProductoRepository(deps.DB)
	ventaRepo := repository.NewVentaRepository(deps.DB)
	boletaRepo := repository.NewBoletaRepository(deps.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	cache := service.NewCatalogCache(deps.RDB, time.Duration(cfg.CatalogCacheTTLSeconds)*time.Second)

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, cache)
	boletaSvc := service.NewBoletaService(boletaRepo, ventaRepo, cfg.BoletaPrefijo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, usuarioRepo, boletaSvc, cache, deps.Dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	boletasH := handler.NewBoletasHandler(boletaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(deps.DB, deps.RDB, deps.SMTPBreaker))
	r.GET("/metrics", middleware.MetricsHandler())

	api := r.Group("/api/v1")

	// Auth (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	v1 := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	can := middleware.RequirePermiso

	v1.GET("/auth/profile", authH.Profile)
	users := v1.Group("/auth/users")
	{
		users.GET("", can(model.PermisoVerUsuarios), authH.ListarUsuarios)
		users.GET("/:id", middleware.RequirePermisoOrSelf(model.PermisoVerUsuarios, "id"), authH.ObtenerUsuario)
		users.PATCH("/:id", can(model.PermisoGestionarUsuarios), authH.ActualizarUsuario)
		users.DELETE("/:id", can(model.PermisoGestionarUsuarios), authH.EliminarUsuario)
	}

	prods := v1.Group("/productos")
	{
		prods.GET("", can(model.PermisoVerCatalogo), productosH.Listar)
		prods.GET("/categoria/:categoria", can(model.PermisoVerCatalogo), productosH.ListarPorCategoria)
		prods.GET("/:id", can(model.PermisoVerCatalogo), productosH.ObtenerPorID)
		prods.POST("", can(model.PermisoGestionarCatalogo), productosH.Crear)
		prods.POST("/seed", can(model.PermisoGestionarCatalogo), productosH.CargarCatalogo)
		prods.PATCH("/:id", can(model.PermisoGestionarCatalogo), productosH.Actualizar)
		prods.DELETE("/:id", can(model.PermisoGestionarCatalogo), productosH.Desactivar)
	}

	ventas := v1.Group("/ventas")
	{
		ventas.POST("", can(model.PermisoRegistrarVentas), ventasH.Crear)
		ventas.GET("", can(model.PermisoVerVentas), ventasH.Listar)
		ventas.GET("/diarias", can(model.PermisoVerVentas), ventasH.Diarias)
		ventas.GET("/usuario/:usuarioId", can(model.PermisoVerVentas), ventasH.ListarPorUsuario)
		ventas.GET("/:id", can(model.PermisoVerVentas), ventasH.ObtenerPorID)
		ventas.PATCH("/:id", can(model.PermisoAnularVentas), ventasH.ActualizarEstado)
		ventas.DELETE("/:id", can(model.PermisoAnularVentas), ventasH.Anular)
	}

	boletas := v1.Group("/boletas")
	{
		boletas.POST("", can(model.PermisoEmitirBoletas), boletasH.Crear)
		boletas.GET("", can(model.PermisoVerBoletas), boletasH.Listar)
		boletas.GET("/numero/:numero", can(model.PermisoVerBoletas), boletasH.ObtenerPorNumero)
		boletas.GET("/venta/:ventaId", can(model.PermisoVerBoletas), boletasH.ObtenerPorVenta)
		boletas.GET("/:id", can(model.PermisoVerBoletas), boletasH.ObtenerPorID)
		boletas.GET("/:id/pdf", can(model.PermisoVerBoletas), boletasH.PDF)
		boletas.PATCH("/:id", can(model.PermisoGestionarBoletas), boletasH.Actualizar)
		boletas.DELETE("/:id", can(model.PermisoGestionarBoletas), boletasH.Eliminar)
	}

	// Swagger UI: only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
