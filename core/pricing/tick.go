package pricing

import "github.com/shopspring/decimal"

// noisePlaces is the number of decimal places kept before snapping, so that
// float artifacts such as 2.8499999999999996 snap as 2.85.
const noisePlaces = 9

func snap(x, tick float64, mode func(decimal.Decimal) decimal.Decimal) float64 {
	if tick <= 0 {
		return x
	}
	t := decimal.NewFromFloat(tick)
	d := decimal.NewFromFloat(x).Round(noisePlaces)
	return mode(d.Div(t)).Mul(t).InexactFloat64()
}

func snapUp(x, tick float64) float64 {
	return snap(x, tick, decimal.Decimal.Ceil)
}

func snapDown(x, tick float64) float64 {
	return snap(x, tick, decimal.Decimal.Floor)
}

func snapNearest(x, tick float64) float64 {
	return snap(x, tick, func(d decimal.Decimal) decimal.Decimal { return d.Round(0) })
}
