// Package analytics contiene los casos de uso de reportes: KPIs del dashboard, rankings,
// series diarias, distribuciones y exportaciones a Excel y PDF.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	dinv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/report"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const (
	dashboardTopProducts = 5 // productos en el widget del dashboard
	dashboardDays        = 7
	maxTopN              = 100
)

// ReportUseCase reportes de solo lectura sobre el ledger.
type ReportUseCase struct {
	svc      *inventory.Service
	products repository.ProductRepository
	depots   repository.DepotRepository
	sheets   SpreadsheetExporter
	pdf      PDFRenderer
	loc      *time.Location
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso. loc define los días calendario de las series.
func NewReportUseCase(
	svc *inventory.Service,
	products repository.ProductRepository,
	depots repository.DepotRepository,
	sheets SpreadsheetExporter,
	pdf PDFRenderer,
	loc *time.Location,
) *ReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportUseCase{svc: svc, products: products, depots: depots, sheets: sheets, pdf: pdf, loc: loc, now: time.Now}
}

// Dashboard KPIs generales. Tres lecturas en paralelo:
//  1. StockLines              → totales, estados, valor, top productos
//  2. ledger del mes en curso → movimientos y rotación
//  3. últimos 7 días          → serie diaria
func (uc *ReportUseCase) Dashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	now := uc.now().In(uc.loc)

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := report.DayStart(now, uc.loc)
	todayEnd := todayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc)
	weekStart := todayStart.AddDate(0, 0, -(dashboardDays - 1))

	var (
		lines   []report.StockLine
		month   monthStats
		buckets []report.DayBucket
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lines, err = uc.svc.StockLines(gctx, inventory.StockLinesFilter{})
		if err != nil {
			return fmt.Errorf("dashboard: stock: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		month, err = uc.monthStats(gctx, monthStart, todayEnd)
		if err != nil {
			return fmt.Errorf("dashboard: movimientos del mes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		buckets, err = report.MovementsPerDay(uc.svc.Classes(), uc.svc.Movements(gctx, rangeFilter(weekStart, todayEnd)), weekStart, todayEnd, uc.loc)
		if err != nil {
			return fmt.Errorf("dashboard: serie diaria: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byStatus := report.CountByStatus(lines)
	totalStock := report.TotalStock(lines)
	return &dto.DashboardDTO{
		TotalProducts:  len(lines),
		TotalStock:     totalStock,
		BelowThreshold: byStatus[dinv.StatusBelowThreshold],
		OutOfStock:     byStatus[dinv.StatusOutOfStock],
		TotalMovements: month.in + month.out,
		InMovements:    month.in,
		OutMovements:   month.out,
		StockValue:     report.TotalValue(lines).Round(2),
		RotationRate:   report.RotationRate(month.outQty, totalStock, len(lines)),
		TopProducts:    inventory.ToStockLineResponses(report.TopN(lines, dashboardTopProducts, report.MetricStock)),
		Last7Days:      toDayBucketDTOs(buckets),
		DateLabel:      monthLabel(now),
	}, nil
}

type monthStats struct {
	in, out int
	outQty  int64
}

func (uc *ReportUseCase) monthStats(ctx context.Context, from, to time.Time) (monthStats, error) {
	var st monthStats
	for m, err := range uc.svc.Movements(ctx, rangeFilter(from, to)) {
		if err != nil {
			return st, err
		}
		if uc.svc.Classes().Sign(m) < 0 {
			st.out++
			st.outQty += m.Quantity
		} else {
			st.in++
		}
	}
	return st, nil
}

func rangeFilter(from, to time.Time) repository.MovementFilter {
	return repository.MovementFilter{From: &from, To: &to, Order: repository.OrderAsc}
}

// TopN los n productos con mayor stock o valor.
func (uc *ReportUseCase) TopN(ctx context.Context, n int, metric string, f inventory.StockLinesFilter) ([]dto.StockLineResponse, error) {
	by, err := report.ParseMetric(metric)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: n no puede ser negativo", domain.ErrValidation)
	}
	if n > maxTopN {
		n = maxTopN
	}
	lines, err := uc.svc.StockLines(ctx, f)
	if err != nil {
		return nil, err
	}
	return inventory.ToStockLineResponses(report.TopN(lines, n, by)), nil
}

// MovementsPerDay conteo diario por dirección entre from y to (días calendario incluidos, sin huecos).
func (uc *ReportUseCase) MovementsPerDay(ctx context.Context, from, to time.Time, productID, depotID string) ([]dto.DayBucketDTO, error) {
	first := report.DayStart(from, uc.loc)
	last := report.DayStart(to, uc.loc)
	if last.Before(first) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrValidation)
	}
	if last.After(first.AddDate(0, 0, report.MaxSeriesDays-1)) {
		return nil, fmt.Errorf("%w: el rango supera %d días", domain.ErrValidation, report.MaxSeriesDays)
	}
	end := last.AddDate(0, 0, 1).Add(-time.Nanosecond)
	f := rangeFilter(first, end)
	f.DepotID = depotID
	if productID != "" {
		f.ProductIDs = []string{productID}
	}
	buckets, err := report.MovementsPerDay(uc.svc.Classes(), uc.svc.Movements(ctx, f), first, last, uc.loc)
	if err != nil {
		return nil, err
	}
	return toDayBucketDTOs(buckets), nil
}

// Distribution agrupa el ledger por categoría, depósito o etiqueta.
// Para depósitos, Label lleva el nombre vigente del depósito.
func (uc *ReportUseCase) Distribution(ctx context.Context, dimension, measure string) ([]dto.DistributionBucketDTO, error) {
	dim, err := report.ParseDimension(dimension)
	if err != nil {
		return nil, err
	}
	ms, err := report.ParseMeasure(measure)
	if err != nil {
		return nil, err
	}
	products, err := uc.productIndex(ctx, dim == report.DimensionCategory)
	if err != nil {
		return nil, err
	}
	buckets, err := report.DistributionBy(dim, ms, uc.svc.Classes(), products, uc.svc.Movements(ctx, repository.MovementFilter{}))
	if err != nil {
		return nil, err
	}
	names := map[string]string{}
	if dim == report.DimensionDepot {
		depots, err := uc.depots.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list depots: %w", err)
		}
		for _, d := range depots {
			names[d.ID] = d.Name
		}
	}
	out := make([]dto.DistributionBucketDTO, 0, len(buckets))
	for _, b := range buckets {
		label := b.Key
		if name, ok := names[b.Key]; ok {
			label = name
		}
		out = append(out, dto.DistributionBucketDTO{Key: b.Key, Label: label, Value: b.Value})
	}
	return out, nil
}

// productIndex productos por ID. Los archivados siguen contando en las distribuciones históricas.
func (uc *ReportUseCase) productIndex(ctx context.Context, needed bool) (map[string]*entity.Product, error) {
	index := make(map[string]*entity.Product)
	if !needed {
		return index, nil
	}
	list, err := uc.products.List(ctx, repository.ProductFilter{IncludeArchived: true})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	for _, p := range list {
		index[p.ID] = p
	}
	return index, nil
}

// TotalValue suma de stock presentado × precio.
func (uc *ReportUseCase) TotalValue(ctx context.Context, f inventory.StockLinesFilter) (*dto.TotalValueDTO, error) {
	lines, err := uc.svc.StockLines(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.TotalValueDTO{
		TotalValue: report.TotalValue(lines).Round(2),
		TotalStock: report.TotalStock(lines),
		Products:   len(lines),
	}, nil
}

// ── Exportaciones ─────────────────────────────────────────────────────────────

// StockSpreadsheet listado de stock en Excel.
func (uc *ReportUseCase) StockSpreadsheet(ctx context.Context, f inventory.StockLinesFilter) ([]byte, error) {
	lines, err := uc.svc.StockLines(ctx, f)
	if err != nil {
		return nil, err
	}
	return uc.sheets.ExportStock(inventory.ToStockLineResponses(lines))
}

// StockPDF informe de stock en PDF.
func (uc *ReportUseCase) StockPDF(ctx context.Context, f inventory.StockLinesFilter) ([]byte, error) {
	lines, err := uc.svc.StockLines(ctx, f)
	if err != nil {
		return nil, err
	}
	return uc.pdf.RenderStockReport(dto.StockReportDTO{
		Title:       "Informe de stock",
		GeneratedAt: uc.now().In(uc.loc),
		Lines:       inventory.ToStockLineResponses(lines),
		TotalStock:  report.TotalStock(lines),
		TotalValue:  report.TotalValue(lines).Round(2),
	})
}

// MovementsSpreadsheet ledger en Excel, con las mismas columnas que acepta la importación.
func (uc *ReportUseCase) MovementsSpreadsheet(ctx context.Context, f repository.MovementFilter) ([]byte, error) {
	products, err := uc.productIndex(ctx, true)
	if err != nil {
		return nil, err
	}
	depots, err := uc.depots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list depots: %w", err)
	}
	depotNames := make(map[string]string, len(depots))
	for _, d := range depots {
		depotNames[d.ID] = d.Name
	}
	rows := make([]dto.MovementExportRow, 0)
	for m, err := range uc.svc.Movements(ctx, f) {
		if err != nil {
			return nil, err
		}
		row := dto.MovementExportRow{
			Timestamp:    m.Timestamp.In(uc.loc),
			Direction:    string(m.Direction),
			Label:        m.Label,
			Quantity:     m.Quantity,
			Depot:        depotNames[m.DepotID],
			Counterparty: m.Counterparty,
			Comment:      m.Comment,
		}
		if p, ok := products[m.ProductID]; ok {
			row.ProductCode, row.ProductName = p.Code, p.Name
		}
		rows = append(rows, row)
	}
	return uc.sheets.ExportMovements(rows)
}

// VerificationSpreadsheet resultado de una verificación en Excel.
func (uc *ReportUseCase) VerificationSpreadsheet(lines []dto.VerificationLineResponse) ([]byte, error) {
	return uc.sheets.ExportVerification(lines)
}

// VerificationPDF resultado de una verificación en PDF.
func (uc *ReportUseCase) VerificationPDF(lines []dto.VerificationLineResponse, applied bool) ([]byte, error) {
	return uc.pdf.RenderVerificationReport(dto.VerificationReportDTO{
		Title:       "Verificación de inventario",
		GeneratedAt: uc.now().In(uc.loc),
		Applied:     applied,
		Lines:       lines,
	})
}

func toDayBucketDTOs(buckets []report.DayBucket) []dto.DayBucketDTO {
	out := make([]dto.DayBucketDTO, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dto.DayBucketDTO{
			Date:        b.Date.Format(time.DateOnly),
			In:          b.In,
			Out:         b.Out,
			InQuantity:  b.InQuantity,
			OutQuantity: b.OutQuantity,
		})
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
