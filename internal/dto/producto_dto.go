package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre"      validate:"required,min=1,max=120"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"      validate:"min=0"`
	Stock       int             `json:"stock"       validate:"min=0"`
	Categoria   *string         `json:"categoria"   validate:"omitempty,max=60"`
	Imagen      *string         `json:"imagen"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"      validate:"omitempty,min=1,max=120"`
	Descripcion *string          `json:"descripcion"`
	Precio      *decimal.Decimal `json:"precio"      validate:"omitempty,min=0"`
	Stock       *int             `json:"stock"       validate:"omitempty,min=0"`
	Categoria   *string          `json:"categoria"   validate:"omitempty,max=60"`
	Imagen      *string          `json:"imagen"`
	Activo      *bool            `json:"activo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          uint            `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	Categoria   string          `json:"categoria"`
	Imagen      *string         `json:"imagen"`
	Estado      string          `json:"estado"`
	Activo      bool            `json:"activo"`
}

type SeedCatalogoResponse struct {
	Mensaje   string             `json:"mensaje"`
	Cantidad  int                `json:"cantidad"`
	Productos []ProductoResponse `json:"productos"`
}
