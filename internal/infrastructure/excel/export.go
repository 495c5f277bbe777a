package excel

import (
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// ExportMovements hoja "Movimientos" con las columnas que acepta la importación.
func (w *Workbook) ExportMovements(rows []dto.MovementExportRow) ([]byte, error) {
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{
			r.Timestamp.Format(timestampLayout),
			r.ProductCode,
			r.ProductName,
			r.Direction,
			r.Label,
			r.Quantity,
			r.Depot,
			r.Counterparty,
			r.Comment,
		})
	}
	return sheet("Movimientos", movementHeaders, data, map[string]float64{"A": 20, "B": 16, "C": 30, "E": 18, "I": 40})
}

// ExportStock hoja "Stock" con el stock derivado y su valor.
func (w *Workbook) ExportStock(lines []dto.StockLineResponse) ([]byte, error) {
	headers := []string{"Código", "Producto", "Categoría", "Unidad", "Precio", "Umbral", "Stock", "Valor", "Estado"}
	data := make([][]any, 0, len(lines))
	for _, l := range lines {
		data = append(data, []any{
			l.Code,
			l.Name,
			l.Category,
			l.Unit,
			l.Price.InexactFloat64(),
			l.Threshold,
			l.Stock,
			l.Value.InexactFloat64(),
			l.Status,
		})
	}
	return sheet("Stock", headers, data, map[string]float64{"A": 12, "B": 30, "C": 20, "I": 18})
}

// ExportVerification hoja "Verificación" con teórico, contado y diferencia.
func (w *Workbook) ExportVerification(lines []dto.VerificationLineResponse) ([]byte, error) {
	headers := []string{"Código", "Producto", "Depósito", "Teórico", "Contado", "Diferencia", "Ajuste"}
	data := make([][]any, 0, len(lines))
	for _, l := range lines {
		data = append(data, []any{
			l.Code,
			l.Name,
			l.DepotID,
			l.Theoretical,
			l.Counted,
			l.Discrepancy,
			l.AdjustmentID,
		})
	}
	return sheet("Verificación", headers, data, map[string]float64{"A": 12, "B": 30, "C": 38, "G": 38})
}
