package service

import (
	"context"
	"errors"
	"time"

	"github.com/pab0412/api-gamer-zeta/internal/apierror"
	"github.com/pab0412/api-gamer-zeta/internal/dto"
	"github.com/pab0412/api-gamer-zeta/internal/model"
	"github.com/pab0412/api-gamer-zeta/internal/repository"
	"github.com/pab0412/api-gamer-zeta/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	Crear(ctx context.Context, req dto.CrearVentaRequest) (*dto.VentaResponse, error)
	Listar(ctx context.Context) ([]dto.VentaResponse, error)
	Diarias(ctx context.Context) ([]dto.VentaResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.VentaResponse, error)
	ListarPorUsuario(ctx context.Context, usuarioID uint) ([]dto.VentaResponse, error)
	ActualizarEstado(ctx context.Context, id uint, estado model.EstadoVenta) (*dto.VentaResponse, error)
	Anular(ctx context.Context, id uint) (*dto.VentaResponse, error)
}

// EmailQueue accepts "mail this boleta" jobs. *worker.Dispatcher implements it.
type EmailQueue interface {
	EnqueueBoletaEmail(ctx context.Context, payload worker.BoletaEmailPayload) error
}

type ventaService struct {
	repo      repository.VentaRepository
	productos repository.ProductoRepository
	usuarios  repository.UsuarioRepository
	boletas   BoletaService
	cache     *CatalogCache
	emails    EmailQueue
	now       func() time.Time
}

func NewVentaService(
	repo repository.VentaRepository,
	productos repository.ProductoRepository,
	usuarios repository.UsuarioRepository,
	boletas BoletaService,
	cache *CatalogCache,
	emails EmailQueue,
) VentaService {
	return &ventaService{
		repo:      repo,
		productos: productos,
		usuarios:  usuarios,
		boletas:   boletas,
		cache:     cache,
		emails:    emails,
		now:       time.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// notFoundOr maps gorm.ErrRecordNotFound to a not-found domain error and
// passes any other error through.
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NoEncontrado(format, args...)
	}
	return err
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// One transaction covers the whole sale:
//   1. per line: load product, conditional stock decrement, accumulate subtotal
//   2. iva / total
//   3. insert venta (completada)
//   4. issue boleta
// Any failure rolls back every decrement already applied.

func (s *ventaService) Crear(ctx context.Context, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	if len(req.DetalleProductos) == 0 {
		return nil, apierror.Validacion("La venta debe incluir al menos un producto")
	}
	usuario, err := s.usuarios.FindByID(ctx, req.UsuarioID)
	if err != nil {
		return nil, notFoundOr(err, "Usuario con ID %d no encontrado", req.UsuarioID)
	}

	var venta model.Venta
	var boleta *model.Boleta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		subtotal := decimal.Zero
		lineas := make([]model.LineaVenta, 0, len(req.DetalleProductos))

		for _, item := range req.DetalleProductos {
			if item.Cantidad <= 0 {
				return apierror.Validacion("La cantidad debe ser mayor a cero")
			}
			p, err := s.productos.FindByIDTx(tx, item.ProductoID)
			if err != nil {
				return notFoundOr(err, "Producto con ID %d no encontrado", item.ProductoID)
			}
			if !p.Activo() {
				return apierror.Conflicto("El producto %s no esta disponible", p.Nombre)
			}

			ok, err := s.productos.DescontarStockTx(tx, p.ID, item.Cantidad)
			if err != nil {
				return err
			}
			if !ok {
				disponible := p.Stock
				if actual, err := s.productos.FindByIDTx(tx, p.ID); err == nil {
					disponible = actual.Stock
				}
				return apierror.Conflicto("Stock insuficiente para %s. Disponible: %d", p.Nombre, disponible)
			}

			lineSubtotal := p.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad)))
			subtotal = subtotal.Add(lineSubtotal)
			lineas = append(lineas, model.LineaVenta{
				ProductoID:     p.ID,
				Nombre:         p.Nombre,
				Cantidad:       item.Cantidad,
				PrecioUnitario: p.Precio,
				Subtotal:       lineSubtotal,
			})
		}

		iva, total := model.Totales(subtotal)
		venta = model.Venta{
			UsuarioID:  usuario.ID,
			Detalle:    lineas,
			MetodoPago: model.MetodoPago(req.MetodoPago),
			Subtotal:   subtotal.Round(2),
			IVA:        iva,
			Total:      total,
			Estado:     model.VentaCompletada,
		}
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return err
		}

		b, err := s.boletas.EmitirTx(tx, &venta, req.Cliente, req.Rut)
		if err != nil {
			return err
		}
		boleta = b
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if venta.Fecha.IsZero() {
		venta.Fecha = s.now()
	}
	venta.Usuario = usuario
	venta.Boleta = boleta

	// Committed: stock changed, listings are stale.
	s.cache.Invalidate(ctx)

	if req.Email != nil && *req.Email != "" && s.emails != nil {
		// best effort, the sale is already durable
		if err := s.emails.EnqueueBoletaEmail(ctx, worker.BoletaEmailPayload{
			BoletaID: boleta.ID,
			ToEmail:  *req.Email,
		}); err != nil {
			log.Warn().Err(err).Uint("venta_id", venta.ID).Msg("no se pudo encolar el email de la boleta")
		}
	}

	log.Info().
		Uint("venta_id", venta.ID).
		Str("boleta", boleta.Numero).
		Str("total", venta.Total.StringFixed(2)).
		Msg("venta registrada")
	return ventaToResponse(&venta), nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *ventaService) Listar(ctx context.Context) ([]dto.VentaResponse, error) {
	ventas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ventasToResponse(ventas), nil
}

// Diarias returns today's completed sales (server local time).
func (s *ventaService) Diarias(ctx context.Context) ([]dto.VentaResponse, error) {
	now := s.now()
	desde := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	ventas, err := s.repo.ListEntre(ctx, desde, desde.AddDate(0, 0, 1), model.VentaCompletada)
	if err != nil {
		return nil, err
	}
	return ventasToResponse(ventas), nil
}

func (s *ventaService) ObtenerPorID(ctx context.Context, id uint) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Venta con ID %d no encontrada", id)
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) ListarPorUsuario(ctx context.Context, usuarioID uint) ([]dto.VentaResponse, error) {
	ventas, err := s.repo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	return ventasToResponse(ventas), nil
}

// ── State transitions ─────────────────────────────────────────────────────────

// ActualizarEstado applies completada → anulada. Repeating the current state
// is a no-op; leaving anulada is a conflict. Stock is not restored on void.
func (s *ventaService) ActualizarEstado(ctx context.Context, id uint, estado model.EstadoVenta) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Venta con ID %d no encontrada", id)
	}
	desde := v.Estado
	cambio, err := v.CambiarEstado(estado)
	if err != nil {
		return nil, apierror.Conflicto("No se puede cambiar una venta %s a %s", desde, estado)
	}
	if !cambio {
		return ventaToResponse(v), nil
	}

	ok, err := s.repo.CambiarEstado(ctx, id, desde, estado)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race with another transition; report what is stored now.
		actual, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if actual.Estado != estado {
			return nil, apierror.Conflicto("No se puede cambiar una venta %s a %s", actual.Estado, estado)
		}
		return ventaToResponse(actual), nil
	}
	log.Info().Uint("venta_id", id).Str("estado", string(estado)).Msg("estado de venta actualizado")
	return ventaToResponse(v), nil
}

func (s *ventaService) Anular(ctx context.Context, id uint) (*dto.VentaResponse, error) {
	return s.ActualizarEstado(ctx, id, model.VentaAnulada)
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func ventasToResponse(ventas []model.Venta) []dto.VentaResponse {
	resp := make([]dto.VentaResponse, len(ventas))
	for i := range ventas {
		resp[i] = *ventaToResponse(&ventas[i])
	}
	return resp
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	lineas := make([]dto.LineaVentaResponse, len(v.Detalle))
	for i, l := range v.Detalle {
		lineas[i] = dto.LineaVentaResponse{
			ProductoID:     l.ProductoID,
			Nombre:         l.Nombre,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Subtotal:       l.Subtotal,
		}
	}
	resp := &dto.VentaResponse{
		ID:               v.ID,
		Fecha:            v.Fecha.Format(time.RFC3339),
		UsuarioID:        v.UsuarioID,
		DetalleProductos: lineas,
		MetodoPago:       string(v.MetodoPago),
		Subtotal:         v.Subtotal,
		IVA:              v.IVA,
		Total:            v.Total,
		Estado:           string(v.Estado),
	}
	if v.Usuario != nil {
		resp.Cajero = v.Usuario.Nombre
	}
	if v.Boleta != nil {
		b := *v.Boleta
		b.Venta = nil
		resp.Boleta = boletaToResponse(&b)
	}
	return resp
}
