package price

import (
	"github.com/shopspring/decimal"

	"fuelrecon/internal/core/period"
	"fuelrecon/internal/core/types"
)

// avgScale is the decimal precision of a week-average price.
const avgScale = 4

// WeekAverages averages posted prices per full week window. A week with no
// posting in it is absent from the result rather than zero: a zero average
// would read as free fuel in the report.
func WeekAverages(prices []FuelPrice, weeks []period.WeekRange) map[period.YearWeek]types.Price {
	out := make(map[period.YearWeek]types.Price, len(weeks))
	for _, w := range weeks {
		sum := decimal.Zero
		count := 0
		for i := range prices {
			d := period.DayOf(prices[i].Date)
			if !d.Before(w.Start) && !d.After(w.End) {
				sum = sum.Add(prices[i].Price)
				count++
			}
		}
		if count > 0 {
			out[w.YearWeek] = sum.DivRound(decimal.NewFromInt(int64(count)), avgScale)
		}
	}
	return out
}
