package infra

// pdf.go renders a boleta as a narrow thermal-receipt style PDF:
//   - store header
//   - boleta number, issue date, customer and RUT
//   - line items (product, quantity, subtotal)
//   - subtotal, IVA and bold total

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pab0412/api-gamer-zeta/internal/model"

	"github.com/go-pdf/fpdf"
)

const tiendaNombre = "Tienda Gamer Zeta"

// RenderBoletaPDF writes the PDF for a boleta and its venta to w.
func RenderBoletaPDF(w io.Writer, boleta *model.Boleta, venta *model.Venta) error {
	// 80mm wide roll; height grows with the number of lines.
	alto := 110 + float64(len(venta.Detalle))*5
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: alto},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(tiendaNombre), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr("Boleta electrónica"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, tr("N° "+boleta.Numero), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, boleta.FechaEmision.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Cliente: "+boleta.Cliente), "", 1, "L", false, 0, "")
	if boleta.Rut != nil && *boleta.Rut != "" {
		pdf.CellFormat(contentW, 4, "RUT: "+*boleta.Rut, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 4, tr(fmt.Sprintf("Venta #%d · %s", venta.ID, venta.MetodoPago)), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, l := range venta.Detalle {
		nombre := []rune(l.Nombre)
		if len(nombre) > 26 {
			nombre = append(nombre[:25], '.')
		}
		pdf.CellFormat(col1, 5, tr(string(nombre)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", l.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+l.Subtotal.StringFixed(0), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.CellFormat(col1+col2, 4, "Neto:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "$"+venta.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1+col2, 4, "IVA 19%:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "$"+venta.IVA.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+boleta.MontoTotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// SaveBoletaPDF renders the boleta into storagePath/<numero>.pdf and returns
// the file path.
func SaveBoletaPDF(boleta *model.Boleta, venta *model.Venta, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	var buf bytes.Buffer
	if err := RenderBoletaPDF(&buf, boleta, venta); err != nil {
		return "", fmt.Errorf("pdf: render: %w", err)
	}
	path := filepath.Join(storagePath, boleta.Numero+".pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}
