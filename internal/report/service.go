package report

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Service renders repository aggregates into API responses with
// human-formatted money strings alongside the raw minor-unit values.
type Service struct {
	repo    Repository
	printer *message.Printer
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, printer: message.NewPrinter(language.English)}
}

// FormatAmount renders a minor-unit amount with thousands separators.
func (s *Service) FormatAmount(amount int64) string {
	return s.printer.Sprintf("%d", amount)
}

type StockValueReport struct {
	StockValue
	ValueFormatted string `json:"value_formatted"`
}

type PurchaseReport struct {
	PurchaseSummary
	TotalFormatted string `json:"total_formatted"`
}

type SalesReport struct {
	SalesSummary
	RevenueFormatted string `json:"revenue_formatted"`
	MarginFormatted  string `json:"margin_formatted"`
}

type ExpenseReport struct {
	ExpenseSummary
	TotalFormatted string `json:"total_formatted"`
}

func (s *Service) StockValue(ctx context.Context, inventoryID int64) (StockValueReport, error) {
	sv, err := s.repo.StockValue(ctx, inventoryID)
	if err != nil {
		return StockValueReport{}, err
	}
	return StockValueReport{StockValue: sv, ValueFormatted: s.FormatAmount(sv.Value)}, nil
}

func (s *Service) Purchases(ctx context.Context, inventoryID int64, period Range) (PurchaseReport, error) {
	ps, err := s.repo.Purchases(ctx, inventoryID, period)
	if err != nil {
		return PurchaseReport{}, err
	}
	return PurchaseReport{PurchaseSummary: ps, TotalFormatted: s.FormatAmount(ps.Total)}, nil
}

func (s *Service) Sales(ctx context.Context, inventoryID int64, period Range) (SalesReport, error) {
	ss, err := s.repo.Sales(ctx, inventoryID, period)
	if err != nil {
		return SalesReport{}, err
	}
	return SalesReport{
		SalesSummary:     ss,
		RevenueFormatted: s.FormatAmount(ss.Revenue),
		MarginFormatted:  s.FormatAmount(ss.Margin),
	}, nil
}

func (s *Service) Expenses(ctx context.Context, inventoryID int64, period Range) (ExpenseReport, error) {
	es, err := s.repo.Expenses(ctx, inventoryID, period)
	if err != nil {
		return ExpenseReport{}, err
	}
	return ExpenseReport{ExpenseSummary: es, TotalFormatted: s.FormatAmount(es.Total)}, nil
}
