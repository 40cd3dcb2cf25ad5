package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearBoletaRequest struct {
	VentaID uint    `json:"ventaId" validate:"required,min=1"`
	Cliente *string `json:"cliente" validate:"omitempty,max=120"`
	Rut     *string `json:"rut"     validate:"omitempty,max=20"`
}

// ActualizarBoletaRequest only touches customer data; numero and monto are
// fixed at issuance.
type ActualizarBoletaRequest struct {
	Cliente *string `json:"cliente" validate:"omitempty,min=1,max=120"`
	Rut     *string `json:"rut"     validate:"omitempty,max=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BoletaResponse struct {
	ID           uint            `json:"id"`
	Numero       string          `json:"numero"`
	FechaEmision string          `json:"fechaEmision"`
	Cliente      string          `json:"cliente"`
	Rut          *string         `json:"rut"`
	MontoTotal   decimal.Decimal `json:"montoTotal"`
	VentaID      uint            `json:"ventaId"`
	PDFUrl       string          `json:"pdfUrl"`
	Venta        *VentaResponse  `json:"venta,omitempty"`
}
