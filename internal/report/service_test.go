package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	sales    SalesSummary
	expenses ExpenseSummary
}

func (s *stubRepo) StockValue(context.Context, int64) (StockValue, error) {
	return StockValue{Items: 2, Quantity: 12, Value: 1250000}, nil
}

func (s *stubRepo) Purchases(context.Context, int64, Range) (PurchaseSummary, error) {
	return PurchaseSummary{Receipts: 3, Quantity: 30, Total: 450000}, nil
}

func (s *stubRepo) Sales(context.Context, int64, Range) (SalesSummary, error) {
	return s.sales, nil
}

func (s *stubRepo) Expenses(context.Context, int64, Range) (ExpenseSummary, error) {
	return s.expenses, nil
}

func TestFormatAmount(t *testing.T) {
	svc := NewService(&stubRepo{})

	require.Equal(t, "1,250,000", svc.FormatAmount(1250000))
	require.Equal(t, "0", svc.FormatAmount(0))
	require.Equal(t, "-4,500", svc.FormatAmount(-4500))
}

func TestStockValueReportFormats(t *testing.T) {
	svc := NewService(&stubRepo{})

	rep, err := svc.StockValue(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, 1250000, rep.Value)
	require.Equal(t, "1,250,000", rep.ValueFormatted)
}

func TestSalesReportMargin(t *testing.T) {
	repo := &stubRepo{sales: SalesSummary{Sales: 4, Quantity: 9, Revenue: 90000, Cost: 60000, Margin: 30000}}
	svc := NewService(repo)

	rep, err := svc.Sales(context.Background(), 1, Range{From: time.Now().AddDate(0, -1, 0)})
	require.NoError(t, err)
	require.EqualValues(t, 30000, rep.Margin)
	require.Equal(t, "30,000", rep.MarginFormatted)
	require.Equal(t, "90,000", rep.RevenueFormatted)
}

func TestExpenseReportTotals(t *testing.T) {
	repo := &stubRepo{expenses: ExpenseSummary{
		Entries: 3,
		Total:   75000,
		ByCategory: map[string]int64{
			"rent":      50000,
			"transport": 25000,
		},
	}}
	svc := NewService(repo)

	rep, err := svc.Expenses(context.Background(), 1, Range{})
	require.NoError(t, err)
	require.Equal(t, "75,000", rep.TotalFormatted)
	require.EqualValues(t, 50000, rep.ByCategory["rent"])
}
