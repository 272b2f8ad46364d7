package models

import (
	"context"
	"time"

	"github.com/humbertomar/vipo-backend/config"
	"github.com/shopspring/decimal"
)

// DailySalesSummary aggregates committed orders per day. Money stays in
// integer cents in storage; decimal is used for derived figures (average
// order value) so the report never accumulates float drift.
type DailySalesSummary struct {
	Day               string          `json:"day"`
	OrdersCount       int64           `json:"orders_count"`
	GrossInCents      int64           `json:"gross_in_cents"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

type salesSummaryRow struct {
	Day          string
	OrdersCount  int64
	GrossInCents int64
}

// GetDailySalesSummary excludes cancelled orders; everything else counts as
// a sale the moment the placement transaction committed.
func GetDailySalesSummary(ctx context.Context, from time.Time, to time.Time) ([]*DailySalesSummary, error) {
	db := config.GetDB()

	var rows []salesSummaryRow
	err := db.WithContext(ctx).Model(&Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS orders_count, COALESCE(SUM(total_in_cents), 0) AS gross_in_cents").
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("current_status <> ?", OrderStatusCancelled).
		Group("DATE(created_at)").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	centsPerUnit := decimal.NewFromInt(100)
	results := make([]*DailySalesSummary, 0, len(rows))
	for _, row := range rows {
		summary := DailySalesSummary{
			Day:          row.Day,
			OrdersCount:  row.OrdersCount,
			GrossInCents: row.GrossInCents,
		}
		if row.OrdersCount > 0 {
			summary.AverageOrderValue = decimal.NewFromInt(row.GrossInCents).
				Div(decimal.NewFromInt(row.OrdersCount)).
				Div(centsPerUnit).
				Round(2)
		}
		results = append(results, &summary)
	}
	return results, nil
}
