package proration

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paylume/checkout/internal/models"
	"github.com/paylume/checkout/internal/money"
)

const fallbackPeriodDays = 30

// Prorate computes the charge for the partial period remaining until
// the next synchronized billing date. When the sync date has already
// passed the full charge applies. Pure function, safe to call with
// any fixed calendar dates.
func Prorate(unitPrice money.Money, quantity int, period models.Period, interval int, asOf, nextSync time.Time) money.Money {
	full := unitPrice.MulInt(quantity)
	if !nextSync.After(asOf) {
		return full
	}

	daysUntilSync := daysBetweenCeil(asOf, nextSync)
	periodDays := periodLengthDays(period, interval, asOf)
	if periodDays <= 0 {
		return full
	}

	prorated := money.FromDecimal(full.Decimal().
		Mul(decimal.NewFromInt(int64(daysUntilSync))).
		Div(decimal.NewFromInt(int64(periodDays))))
	if prorated.IsNegative() {
		return money.Zero
	}
	return prorated
}

// daysBetweenCeil counts calendar days from a to b, rounding any
// fractional remainder up so a partial day never undercharges.
func daysBetweenCeil(a, b time.Time) int {
	elapsed := b.Sub(a)
	days := int(elapsed / (24 * time.Hour))
	if elapsed%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// periodLengthDays is calendar-aware: a month is the number of days
// from asOf to asOf plus interval months, not a fixed 30.
func periodLengthDays(period models.Period, interval int, asOf time.Time) int {
	switch period {
	case models.PeriodDay:
		return interval
	case models.PeriodWeek:
		return 7 * interval
	case models.PeriodMonth:
		return int(asOf.AddDate(0, interval, 0).Sub(asOf) / (24 * time.Hour))
	case models.PeriodYear:
		return int(asOf.AddDate(interval, 0, 0).Sub(asOf) / (24 * time.Hour))
	default:
		return fallbackPeriodDays * interval
	}
}
