package usecase

import (
	"fmt"
	"strings"

	domain "github.com/aquavi/delivery-api/internal/entity"
)

// ExportHeader is the first row of the admin CSV export.
var ExportHeader = []string{"Order #", "Customer", "Items", "Total", "Status", "Date", "Address"}

// ExportRows flattens orders matching the filter into CSV-ready rows.
// Pure projection: no side effects, no mutation of the input.
func ExportRows(orders []domain.Order, f OrderFilter) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && o.CreatedAt.After(f.To) {
			continue
		}
		rows = append(rows, []string{
			o.OrderNumber,
			o.CustomerName,
			JoinItems(o.Items),
			o.TotalAmount.StringFixed(2),
			string(o.Status),
			o.CreatedAt.Format("2006-01-02"),
			o.DeliveryAddress,
		})
	}
	return rows
}

// JoinItems renders line items in the "name xQty" comma-joined form used by
// both the CSV export and the confirmation page query string.
func JoinItems(items []domain.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, li := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", li.Name, li.Quantity))
	}
	return strings.Join(parts, ", ")
}
