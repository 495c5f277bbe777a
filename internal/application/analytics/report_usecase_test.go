package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	dinv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/report"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

type captureExporter struct {
	movements []dto.MovementExportRow
	stock     []dto.StockLineResponse
}

func (c *captureExporter) ExportMovements(rows []dto.MovementExportRow) ([]byte, error) {
	c.movements = rows
	return []byte("xlsx"), nil
}

func (c *captureExporter) ExportStock(lines []dto.StockLineResponse) ([]byte, error) {
	c.stock = lines
	return []byte("xlsx"), nil
}

func (c *captureExporter) ExportVerification([]dto.VerificationLineResponse) ([]byte, error) {
	return []byte("xlsx"), nil
}

type capturePDF struct{ stock dto.StockReportDTO }

func (c *capturePDF) RenderStockReport(d dto.StockReportDTO) ([]byte, error) {
	c.stock = d
	return []byte("%PDF"), nil
}

func (c *capturePDF) RenderVerificationReport(dto.VerificationReportDTO) ([]byte, error) {
	return []byte("%PDF"), nil
}

type reportFixture struct {
	uc     *ReportUseCase
	svc    *inventory.Service
	sheets *captureExporter
	pdf    *capturePDF
	clock  time.Time
}

// newReportFixture carga tres productos en dos depósitos con movimientos repartidos en marzo de 2024.
func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	depots := memory.NewDepotRepository(store)
	clock := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := inventory.NewService(inventory.Deps{
		Products:  products,
		Depots:    depots,
		Movements: memory.NewMovementRepository(store),
		Tx:        memory.NewTxRunner(store),
		Clock:     func() time.Time { return clock },
	})
	f := &reportFixture{svc: svc, sheets: &captureExporter{}, pdf: &capturePDF{}}
	f.uc = NewReportUseCase(svc, products, depots, f.sheets, f.pdf, time.UTC)
	f.uc.now = func() time.Time { return time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, depots.Create(ctx, &entity.Depot{ID: "d1", Name: "Central"}))
	require.NoError(t, depots.Create(ctx, &entity.Depot{ID: "d2", Name: "Norte"}))
	for i, p := range []entity.Product{
		{ID: "a", Code: "PRD-0001", Name: "Alfa", Category: "Herramientas", Price: decimal.NewFromInt(2), Threshold: 3},
		{ID: "b", Code: "PRD-0002", Name: "Beta", Category: "", Price: decimal.NewFromInt(10), Threshold: 1},
		{ID: "c", Code: "PRD-0003", Name: "Gamma", Category: "Herramientas", Price: decimal.NewFromInt(1), Threshold: 0},
	} {
		p := p
		p.CreatedAt = clock.Add(time.Duration(i) * time.Second)
		require.NoError(t, products.Create(ctx, &p))
	}

	record := func(day int, pid, label, depot string, qty int64) {
		clock = time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC)
		_, err := svc.RecordMovement(ctx, inventory.RecordInput{ProductID: pid, Label: label, Quantity: qty, DepotID: depot})
		require.NoError(t, err)
	}
	record(1, "a", dinv.LabelIncoming, "d1", 10)
	record(1, "b", dinv.LabelIncoming, "d2", 2)
	record(3, "a", dinv.LabelDelivery, "d1", 4)
	record(3, "c", dinv.LabelIncoming, "", 6)
	return f
}

func TestDashboard(t *testing.T) {
	f := newReportFixture(t)
	d, err := f.uc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, d.TotalProducts)
	assert.Equal(t, int64(14), d.TotalStock)
	assert.Equal(t, 4, d.TotalMovements)
	assert.Equal(t, 3, d.InMovements)
	assert.Equal(t, 1, d.OutMovements)
	assert.True(t, decimal.NewFromInt(38).Equal(d.StockValue), d.StockValue.String())
	// 4 salidas / (14/3) * 100
	assert.Equal(t, "85.71", d.RotationRate.StringFixed(2))
	assert.Len(t, d.Last7Days, 7)
	assert.Equal(t, "2024-02-27", d.Last7Days[0].Date)
	assert.Equal(t, "2024-03-04", d.Last7Days[6].Date)
	assert.Equal(t, "Marzo 2024", d.DateLabel)
	require.Len(t, d.TopProducts, 3)
	assert.Equal(t, "Alfa", d.TopProducts[0].Name)
}

func TestTopN_PorValor(t *testing.T) {
	f := newReportFixture(t)
	top, err := f.uc.TopN(context.Background(), 2, "value", inventory.StockLinesFilter{})
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Beta", top[0].Name)
	assert.Equal(t, "Alfa", top[1].Name)

	_, err = f.uc.TopN(context.Background(), 2, "precio", inventory.StockLinesFilter{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMovementsPerDay_SinHuecos(t *testing.T) {
	f := newReportFixture(t)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	days, err := f.uc.MovementsPerDay(context.Background(), from, to, "", "")
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, dto.DayBucketDTO{Date: "2024-03-01", In: 2, InQuantity: 12}, days[0])
	assert.Equal(t, dto.DayBucketDTO{Date: "2024-03-02"}, days[1])
	assert.Equal(t, 1, days[2].In)
	assert.Equal(t, 1, days[2].Out)

	_, err = f.uc.MovementsPerDay(context.Background(), to, from, "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.MovementsPerDay(context.Background(), from, from.AddDate(0, 0, report.MaxSeriesDays), "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDistribution(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	byCategory, err := f.uc.Distribution(ctx, "category", "stock")
	require.NoError(t, err)
	assert.Equal(t, []dto.DistributionBucketDTO{
		{Key: "Herramientas", Label: "Herramientas", Value: 12},
		{Key: "unspecified", Label: "unspecified", Value: 2},
	}, byCategory)

	byDepot, err := f.uc.Distribution(ctx, "depot", "count")
	require.NoError(t, err)
	assert.Equal(t, []dto.DistributionBucketDTO{
		{Key: "d1", Label: "Central", Value: 2},
		{Key: "d2", Label: "Norte", Value: 1},
		{Key: "unspecified", Label: "unspecified", Value: 1},
	}, byDepot)

	_, err = f.uc.Distribution(ctx, "color", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTotalValue(t *testing.T) {
	f := newReportFixture(t)
	v, err := f.uc.TotalValue(context.Background(), inventory.StockLinesFilter{DepotID: "d1"})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(v.TotalValue))
	assert.Equal(t, int64(6), v.TotalStock)
}

func TestExports(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	_, err := f.uc.MovementsSpreadsheet(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, f.sheets.movements, 4)
	assert.Equal(t, "PRD-0001", f.sheets.movements[0].ProductCode)
	assert.Equal(t, "Central", f.sheets.movements[0].Depot)
	assert.Equal(t, "Incoming", f.sheets.movements[0].Label)

	_, err = f.uc.StockPDF(ctx, inventory.StockLinesFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(14), f.pdf.stock.TotalStock)
	assert.Len(t, f.pdf.stock.Lines, 3)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Febrero 2026", monthLabel(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)))
}
