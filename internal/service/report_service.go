package service

import (
	"fmt"
	"time"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"

	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	GetSalesSummary(days int) ([]repository.SalesSummaryData, error)
	GetTopProducts(days, limit int) ([]repository.TopProductData, error)
	GetLowStockProducts() ([]model.Product, error)
	ExportSales(startDate, endDate time.Time) (*excelize.File, error)
}

type reportService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
}

func NewReportService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) ReportService {
	return &reportService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
	}
}

func (s *reportService) GetSalesSummary(days int) ([]repository.SalesSummaryData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.saleRepo.GetSalesSummary(startDate, endDate)
}

func (s *reportService) GetTopProducts(days, limit int) ([]repository.TopProductData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.saleRepo.GetTopProducts(startDate, endDate, limit)
}

func (s *reportService) GetLowStockProducts() ([]model.Product, error) {
	return s.productRepo.LowStock()
}

// ExportSales builds an Excel workbook with one row per sale line in the
// requested window, plus a grand total row.
func (s *reportService) ExportSales(startDate, endDate time.Time) (*excelize.File, error) {
	sales, err := s.saleRepo.FindBetween(startDate, endDate)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Sales"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Sale ID", "Date", "Cashier", "Payment", "Product", "Qty", "Unit Price", "Subtotal", "Sale Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, sale := range sales {
		cashierName := ""
		if sale.Cashier != nil {
			cashierName = sale.Cashier.FullName
		}
		for _, item := range sale.Items {
			unitPrice, _ := item.UnitPrice.Float64()
			subtotal, _ := item.Subtotal.Float64()
			saleTotal, _ := sale.TotalAmount.Float64()

			values := []interface{}{
				sale.ID.String(),
				sale.CreatedAt.Format("2006-01-02 15:04"),
				cashierName,
				sale.PaymentMethod,
				item.ProductName,
				item.Quantity,
				unitPrice,
				subtotal,
				saleTotal,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	// Grand total over the window
	grandTotal := 0.0
	for _, sale := range sales {
		t, _ := sale.TotalAmount.Float64()
		grandTotal += t
	}
	totalLabelCell, _ := excelize.CoordinatesToCellName(8, row+1)
	totalValueCell, _ := excelize.CoordinatesToCellName(9, row+1)
	f.SetCellValue(sheet, totalLabelCell, "Grand Total")
	f.SetCellValue(sheet, totalValueCell, grandTotal)

	// Freeze the header row
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	return f, nil
}
