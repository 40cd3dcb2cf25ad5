package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ClienteDefault is printed on receipts issued without a named customer.
const ClienteDefault = "Consumidor Final"

// Boleta is the sequentially numbered receipt issued for exactly one Venta.
type Boleta struct {
	ID           uint            `gorm:"primaryKey"`
	Numero       string          `gorm:"type:varchar(30);uniqueIndex;not null"`
	FechaEmision time.Time       `gorm:"autoCreateTime"`
	Cliente      string          `gorm:"not null;default:'Consumidor Final'"`
	Rut          *string         `gorm:"type:varchar(20)"`
	MontoTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VentaID      uint            `gorm:"uniqueIndex;not null"`
	UpdatedAt    time.Time

	Venta *Venta `gorm:"foreignKey:VentaID"`
}

// BoletaCorrelativo holds the last number issued for a prefix. Its row is the
// lock that serializes numbering.
type BoletaCorrelativo struct {
	Prefijo   string `gorm:"primaryKey;type:varchar(10)"`
	Ultimo    int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// FormatNumero renders "PREFIX-000042".
func FormatNumero(prefijo string, n int64) string {
	return fmt.Sprintf("%s-%06d", prefijo, n)
}

// ParseNumero extracts the numeric suffix of a receipt number.
func ParseNumero(numero string) (int64, error) {
	i := strings.LastIndex(numero, "-")
	if i < 0 || i == len(numero)-1 {
		return 0, fmt.Errorf("numero de boleta mal formado: %q", numero)
	}
	return strconv.ParseInt(numero[i+1:], 10, 64)
}
