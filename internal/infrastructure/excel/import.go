package excel

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

var timestampLayouts = []string{timestampLayout, time.RFC3339, "2006-01-02 15:04", time.DateOnly, "02/01/2006 15:04", "02/01/2006"}

// firstSheetRows lee todas las filas de la primera hoja.
func firstSheetRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir planilla: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("la planilla no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, errors.New("la planilla está vacía")
	}
	return rows, nil
}

// ReadProducts lee la hoja de productos. Name es obligatoria; el resto de columnas es opcional.
func (w *Workbook) ReadProducts(r io.Reader) ([]dto.ProductImportRow, error) {
	rows, err := firstSheetRows(r)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(rows[0])
	if !hasColumn(idx, "Nombre", "Name") {
		return nil, errors.New("falta la columna Nombre")
	}
	out := make([]dto.ProductImportRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		out = append(out, dto.ProductImportRow{
			Row:         i + 2,
			Name:        column(row, idx, "Nombre", "Name"),
			Code:        column(row, idx, "Código", "Code"),
			Category:    column(row, idx, "Categoría", "Category"),
			Unit:        column(row, idx, "Unidad", "Unit"),
			Price:       column(row, idx, "Precio", "Price"),
			Threshold:   column(row, idx, "Umbral", "Threshold"),
			Description: column(row, idx, "Descripción", "Description"),
			Supplier:    column(row, idx, "Proveedor", "Supplier"),
		})
	}
	return out, nil
}

// ReadMovements lee una hoja con el formato de ExportMovements.
// Una fecha ilegible deja Timestamp en cero: la fila se reproduce primero.
func (w *Workbook) ReadMovements(r io.Reader) ([]dto.MovementImportRow, error) {
	rows, err := firstSheetRows(r)
	if err != nil {
		return nil, err
	}
	idx := headerIndex(rows[0])
	for _, required := range []string{colProductCode, colQuantity} {
		if !hasColumn(idx, required) {
			return nil, fmt.Errorf("falta la columna %s", required)
		}
	}
	out := make([]dto.MovementImportRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		out = append(out, dto.MovementImportRow{
			Row:          i + 2,
			Timestamp:    parseTimestamp(column(row, idx, colDate)),
			ProductCode:  column(row, idx, colProductCode),
			Direction:    column(row, idx, colDirection),
			Label:        column(row, idx, colLabel),
			Quantity:     column(row, idx, colQuantity),
			Depot:        column(row, idx, colDepot),
			Counterparty: column(row, idx, colCounterparty),
			Comment:      column(row, idx, colComment),
		})
	}
	return out, nil
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
