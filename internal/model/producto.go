package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EstadoProducto replaces a bare "activo" boolean: products are never deleted,
// only moved between these two states.
type EstadoProducto string

const (
	ProductoActivo   EstadoProducto = "activo"
	ProductoInactivo EstadoProducto = "inactivo"
)

// Producto is a catalog entry. Stock is never negative; sales decrement it with
// a conditional update.
type Producto struct {
	ID          uint            `gorm:"primaryKey"`
	Nombre      string          `gorm:"index;not null"`
	Descripcion *string         `gorm:"type:text"`
	Precio      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0"`
	Categoria   string          `gorm:"index"`
	Imagen      *string
	Estado      EstadoProducto `gorm:"type:varchar(20);not null;default:'activo';index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Producto) Activo() bool { return p.Estado == ProductoActivo }

// CambiarEstado applies an activo/inactivo transition. Re-applying the current
// state is allowed and changes nothing.
func (p *Producto) CambiarEstado(nuevo EstadoProducto) error {
	switch nuevo {
	case ProductoActivo, ProductoInactivo:
		p.Estado = nuevo
		return nil
	}
	return fmt.Errorf("estado de producto desconocido: %q", nuevo)
}
