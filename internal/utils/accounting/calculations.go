package accounting

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ExclTaxAmount derives the tax-exclusive portion of a tax-inclusive amount
// for the given GST rate expressed in percent, e.g. rate 10 on 110 yields 99.
// This mirrors how line prices are reported to consumers of the invoice API.
func ExclTaxAmount(inclTax decimal.Decimal, gstRate decimal.Decimal) decimal.Decimal {
	percentage := oneHundred.Sub(gstRate).Div(oneHundred)
	return percentage.Mul(inclTax)
}
