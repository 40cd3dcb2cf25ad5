package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// EstadoVenta: "completada" (initial) → "anulada" (terminal).
type EstadoVenta string

const (
	VentaCompletada EstadoVenta = "completada"
	VentaAnulada    EstadoVenta = "anulada"
)

// ErrTransicionInvalida is returned when a sale is asked to leave "anulada".
var ErrTransicionInvalida = errors.New("transicion de estado invalida")

// MetodoPago accepted by the register.
type MetodoPago string

const (
	PagoEfectivo       MetodoPago = "efectivo"
	PagoTarjetaDebito  MetodoPago = "tarjeta_debito"
	PagoTarjetaCredito MetodoPago = "tarjeta_credito"
	PagoTransferencia  MetodoPago = "transferencia"
)

// TasaIVA is the fixed VAT rate applied to every sale subtotal.
var TasaIVA = decimal.RequireFromString("0.19")

// LineaVenta is one purchased product. Lines are embedded in the venta row,
// not stored in their own table.
type LineaVenta struct {
	ProductoID     uint            `json:"productoId"`
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// Venta is a register transaction. It is never deleted; voiding flips Estado.
type Venta struct {
	ID         uint            `gorm:"primaryKey"`
	Fecha      time.Time       `gorm:"autoCreateTime;index"`
	UsuarioID  uint            `gorm:"index;not null"`
	Detalle    []LineaVenta    `gorm:"column:detalle_productos;type:text;serializer:json;not null"`
	MetodoPago MetodoPago      `gorm:"type:varchar(30)"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA        decimal.Decimal `gorm:"column:iva;type:decimal(12,2);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado     EstadoVenta     `gorm:"type:varchar(20);not null;default:'completada';index"`
	UpdatedAt  time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
	Boleta  *Boleta  `gorm:"foreignKey:VentaID"`
}

// Totales computes iva = round(subtotal × TasaIVA, 2) and total = subtotal + iva.
func Totales(subtotal decimal.Decimal) (iva, total decimal.Decimal) {
	subtotal = subtotal.Round(2)
	iva = subtotal.Mul(TasaIVA).Round(2)
	return iva, subtotal.Add(iva)
}

// CambiarEstado applies a state transition. Repeating the current state is a
// no-op; leaving "anulada" is rejected.
func (v *Venta) CambiarEstado(nuevo EstadoVenta) (cambio bool, err error) {
	if nuevo != VentaCompletada && nuevo != VentaAnulada {
		return false, ErrTransicionInvalida
	}
	if v.Estado == nuevo {
		return false, nil
	}
	if v.Estado == VentaAnulada {
		return false, ErrTransicionInvalida
	}
	v.Estado = nuevo
	return true, nil
}
