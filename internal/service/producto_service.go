package service

import (
	"context"
	"strings"

	"github.com/pab0412/api-gamer-zeta/internal/dto"
	"github.com/pab0412/api-gamer-zeta/internal/model"
	"github.com/pab0412/api-gamer-zeta/internal/repository"

	"github.com/rs/zerolog/log"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.ProductoResponse, error)
	Listar(ctx context.Context) ([]dto.ProductoResponse, error)
	ListarPorCategoria(ctx context.Context, categoria string) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uint) (*dto.ProductoResponse, error)
	// CargarCatalogoInicial inserts the default catalog unconditionally.
	CargarCatalogoInicial(ctx context.Context) (*dto.SeedCatalogoResponse, error)
}

type productoService struct {
	repo  repository.ProductoRepository
	cache *CatalogCache
}

func NewProductoService(repo repository.ProductoRepository, cache *CatalogCache) ProductoService {
	return &productoService{repo: repo, cache: cache}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Nombre:      strings.TrimSpace(req.Nombre),
		Descripcion: req.Descripcion,
		Precio:      req.Precio.Round(2),
		Stock:       req.Stock,
		Imagen:      req.Imagen,
		Estado:      model.ProductoActivo,
	}
	if req.Categoria != nil {
		p.Categoria = strings.TrimSpace(*req.Categoria)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uint) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Producto con ID %d no encontrado", id)
	}
	return productoToResponse(p), nil
}

// Listar returns active products ordered by name.
func (s *productoService) Listar(ctx context.Context) ([]dto.ProductoResponse, error) {
	const key = "activos"
	var cached []dto.ProductoResponse
	hit, gen := s.cache.get(ctx, key, &cached)
	if hit {
		return cached, nil
	}
	productos, err := s.repo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}
	resp := productosToResponse(productos)
	s.cache.set(ctx, gen, key, resp)
	return resp, nil
}

func (s *productoService) ListarPorCategoria(ctx context.Context, categoria string) ([]dto.ProductoResponse, error) {
	categoria = strings.TrimSpace(categoria)
	key := "categoria:" + strings.ToLower(categoria)
	var cached []dto.ProductoResponse
	hit, gen := s.cache.get(ctx, key, &cached)
	if hit {
		return cached, nil
	}
	productos, err := s.repo.ListByCategoria(ctx, categoria)
	if err != nil {
		return nil, err
	}
	resp := productosToResponse(productos)
	s.cache.set(ctx, gen, key, resp)
	return resp, nil
}

// Actualizar applies a partial update. activo=true reactivates a product,
// activo=false deactivates it. Only the columns present in req are written,
// so a sale committed meanwhile keeps its stock decrement.
func (s *productoService) Actualizar(ctx context.Context, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Producto con ID %d no encontrado", id)
	}
	campos := map[string]any{}
	if req.Nombre != nil {
		campos["nombre"] = strings.TrimSpace(*req.Nombre)
	}
	if req.Descripcion != nil {
		campos["descripcion"] = *req.Descripcion
	}
	if req.Precio != nil {
		campos["precio"] = req.Precio.Round(2)
	}
	if req.Stock != nil {
		// explicit restock: absolute value set by an admin
		campos["stock"] = *req.Stock
	}
	if req.Categoria != nil {
		campos["categoria"] = strings.TrimSpace(*req.Categoria)
	}
	if req.Imagen != nil {
		campos["imagen"] = *req.Imagen
	}
	if req.Activo != nil {
		estado := model.ProductoInactivo
		if *req.Activo {
			estado = model.ProductoActivo
		}
		if err := p.CambiarEstado(estado); err != nil {
			return nil, err
		}
		campos["estado"] = p.Estado
	}
	if len(campos) == 0 {
		return productoToResponse(p), nil
	}
	p, err = s.repo.UpdateCampos(ctx, id, campos)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return productoToResponse(p), nil
}

// Desactivar is the soft delete: the row stays, estado becomes inactivo.
func (s *productoService) Desactivar(ctx context.Context, id uint) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Producto con ID %d no encontrado", id)
	}
	if err := p.CambiarEstado(model.ProductoInactivo); err != nil {
		return nil, err
	}
	p, err = s.repo.UpdateCampos(ctx, id, map[string]any{"estado": p.Estado})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	log.Info().Uint("producto_id", id).Msg("producto desactivado")
	return productoToResponse(p), nil
}

func (s *productoService) CargarCatalogoInicial(ctx context.Context) (*dto.SeedCatalogoResponse, error) {
	productos := CatalogoInicial()
	if err := s.repo.CreateMany(ctx, productos); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return &dto.SeedCatalogoResponse{
		Mensaje:   "Productos cargados exitosamente",
		Cantidad:  len(productos),
		Productos: productosToResponse(productos),
	}, nil
}

func productosToResponse(ps []model.Producto) []dto.ProductoResponse {
	resp := make([]dto.ProductoResponse, len(ps))
	for i := range ps {
		resp[i] = *productoToResponse(&ps[i])
	}
	return resp
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Stock:       p.Stock,
		Categoria:   p.Categoria,
		Imagen:      p.Imagen,
		Estado:      string(p.Estado),
		Activo:      p.Activo(),
	}
}
