package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotales_ExampleSale(t *testing.T) {
	subtotal := decimal.NewFromInt(500000).Mul(decimal.NewFromInt(2))

	iva, total := Totales(subtotal)

	assert.True(t, iva.Equal(decimal.NewFromInt(190000)), "iva = %s", iva)
	assert.True(t, total.Equal(decimal.NewFromInt(1190000)), "total = %s", total)
}

func TestTotales_RoundsIVAToTwoDecimals(t *testing.T) {
	// 10.55 × 0.19 = 2.0045 → 2.00
	iva, total := Totales(decimal.RequireFromString("10.55"))

	assert.Equal(t, "2", iva.String())
	assert.Equal(t, "12.55", total.String())
	assert.True(t, total.Equal(decimal.RequireFromString("10.55").Mul(decimal.RequireFromString("1.19")).Round(2)))
}

func TestVenta_CambiarEstado(t *testing.T) {
	v := &Venta{Estado: VentaCompletada}

	cambio, err := v.CambiarEstado(VentaAnulada)
	require.NoError(t, err)
	assert.True(t, cambio)
	assert.Equal(t, VentaAnulada, v.Estado)

	// voiding twice is a no-op
	cambio, err = v.CambiarEstado(VentaAnulada)
	require.NoError(t, err)
	assert.False(t, cambio)

	// anulada is terminal
	_, err = v.CambiarEstado(VentaCompletada)
	assert.ErrorIs(t, err, ErrTransicionInvalida)
	assert.Equal(t, VentaAnulada, v.Estado)
}

func TestVenta_CambiarEstado_Desconocido(t *testing.T) {
	v := &Venta{Estado: VentaCompletada}
	_, err := v.CambiarEstado("reembolsada")
	assert.ErrorIs(t, err, ErrTransicionInvalida)
	assert.Equal(t, VentaCompletada, v.Estado)
}

func TestFormatYParseNumero(t *testing.T) {
	assert.Equal(t, "BOL-000001", FormatNumero("BOL", 1))
	assert.Equal(t, "BOL-123456", FormatNumero("BOL", 123456))
	assert.Equal(t, "BOL-1234567", FormatNumero("BOL", 1234567))

	n, err := ParseNumero("BOL-000042")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = ParseNumero("MI-PREFIJO-000007")
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	for _, bad := range []string{"", "BOL", "BOL-", "BOL-abc"} {
		_, err := ParseNumero(bad)
		assert.Error(t, err, bad)
	}
}

func TestRol_Puede(t *testing.T) {
	assert.True(t, RolAdmin.Puede(PermisoGestionarUsuarios))
	assert.True(t, RolAdmin.Puede(PermisoAnularVentas))
	assert.True(t, RolCajero.Puede(PermisoRegistrarVentas))
	assert.True(t, RolCajero.Puede(PermisoVerCatalogo))

	assert.False(t, RolCajero.Puede(PermisoGestionarUsuarios))
	assert.False(t, RolCajero.Puede(PermisoGestionarCatalogo))
	assert.False(t, RolCajero.Puede(PermisoAnularVentas))
	assert.False(t, RolCajero.Puede(PermisoVenderPorOtros))
	assert.False(t, Rol("root").Puede(PermisoVerCatalogo))
}

func TestParseRol(t *testing.T) {
	r, err := ParseRol("admin")
	require.NoError(t, err)
	assert.Equal(t, RolAdmin, r)

	r, err = ParseRol("cashier")
	require.NoError(t, err)
	assert.Equal(t, RolCajero, r)

	_, err = ParseRol("Admin")
	assert.Error(t, err)
}

func TestProducto_CambiarEstado(t *testing.T) {
	p := &Producto{Estado: ProductoActivo}
	require.NoError(t, p.CambiarEstado(ProductoInactivo))
	assert.False(t, p.Activo())
	require.NoError(t, p.CambiarEstado(ProductoInactivo))
	require.NoError(t, p.CambiarEstado(ProductoActivo))
	assert.True(t, p.Activo())
	assert.Error(t, p.CambiarEstado("borrado"))
}
