package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleProductoRequest struct {
	ProductoID uint `json:"productoId" validate:"required,min=1"`
	Cantidad   int  `json:"cantidad"   validate:"required,min=1"`
}

type CrearVentaRequest struct {
	// UsuarioID defaults to the authenticated user when omitted.
	UsuarioID        uint                     `json:"usuarioId"        validate:"omitempty,min=1"`
	MetodoPago       string                   `json:"metodoPago"       validate:"required,oneof=efectivo tarjeta_debito tarjeta_credito transferencia"`
	DetalleProductos []DetalleProductoRequest `json:"detalleProductos" validate:"required,min=1,dive"`
	Cliente          *string                  `json:"cliente"          validate:"omitempty,max=120"`
	Rut              *string                  `json:"rut"              validate:"omitempty,max=20"`
	// Email: optional, when present the boleta PDF is mailed to the customer.
	Email *string `json:"email" validate:"omitempty,email"`
}

type ActualizarVentaRequest struct {
	Estado string `json:"estado" validate:"required,oneof=completada anulada"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaVentaResponse struct {
	ProductoID     uint            `json:"productoId"`
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID               uint                 `json:"id"`
	Fecha            string               `json:"fecha"`
	UsuarioID        uint                 `json:"usuarioId"`
	Cajero           string               `json:"cajero,omitempty"`
	DetalleProductos []LineaVentaResponse `json:"detalleProductos"`
	MetodoPago       string               `json:"metodoPago"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	IVA              decimal.Decimal      `json:"iva"`
	Total            decimal.Decimal      `json:"total"`
	Estado           string               `json:"estado"`
	Boleta           *BoletaResponse      `json:"boleta"`
}
