package analytics

import "github.com/jhoicas/inventario-ledger/internal/application/dto"

// SpreadsheetExporter genera libros de Excel a partir de los reportes.
type SpreadsheetExporter interface {
	ExportMovements(rows []dto.MovementExportRow) ([]byte, error)
	ExportStock(lines []dto.StockLineResponse) ([]byte, error)
	ExportVerification(lines []dto.VerificationLineResponse) ([]byte, error)
}

// PDFRenderer genera los informes en PDF.
type PDFRenderer interface {
	RenderStockReport(data dto.StockReportDTO) ([]byte, error)
	RenderVerificationReport(data dto.VerificationReportDTO) ([]byte, error)
}
