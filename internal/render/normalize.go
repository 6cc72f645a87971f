package render

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// koboPerNaira is the single minor-to-major unit conversion factor. Amounts
// are stored in kobo everywhere; this is the only place they become naira.
var koboPerNaira = decimal.NewFromInt(100)

// AmountText renders a kobo amount as a fixed two-decimal naira string, e.g.
// 950000 -> "9500.00". No thousands separators: the document may be
// re-ingested by machines.
func AmountText(kobo int64) string {
	return decimal.NewFromInt(kobo).Div(koboPerNaira).StringFixed(2)
}

// SharesText renders a share count as a plain decimal integer string.
func SharesText(shares int64) string {
	return strconv.FormatInt(shares, 10)
}

// DateText renders a date in the jurisdiction's day/month/year convention
// with two-digit day and month.
func DateText(t time.Time) string {
	return t.Format("02/01/2006")
}
