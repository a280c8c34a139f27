package service

import "github.com/shopspring/decimal"

// Quote holds the price snapshot computed at booking time. The
// amounts are fixed on the booking record and never recomputed, even
// if the car's catalog price changes later.
type Quote struct {
	PricePerDay float64
	Days        int
	SubTotal    float64
	TaxRate     float64
	TaxAmount   float64
	TotalAmount float64
}

// ComputeQuote derives the booking totals with decimal arithmetic:
// subTotal = pricePerDay * days, taxAmount = round(subTotal *
// taxRate, 2), totalAmount = subTotal + taxAmount.
func ComputeQuote(pricePerDay float64, days int, taxRate float64) Quote {
	price := decimal.NewFromFloat(pricePerDay)
	rate := decimal.NewFromFloat(taxRate)

	subTotal := price.Mul(decimal.NewFromInt(int64(days)))
	taxAmount := subTotal.Mul(rate).Round(2)
	totalAmount := subTotal.Add(taxAmount)

	return Quote{
		PricePerDay: pricePerDay,
		Days:        days,
		SubTotal:    subTotal.InexactFloat64(),
		TaxRate:     taxRate,
		TaxAmount:   taxAmount.InexactFloat64(),
		TotalAmount: totalAmount.InexactFloat64(),
	}
}
