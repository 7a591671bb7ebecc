// Package pricing computes the itemised price of a delivery.
package pricing

import "github.com/shopspring/decimal"

// Pricing rules. The steps in Compute apply them in a fixed order against a
// running subtotal; reordering them changes the result.
var (
	// UrgentSurchargeRate is applied to the subtotal of urgent deliveries.
	UrgentSurchargeRate = decimal.RequireFromString("0.20")
	// ExtraWeightThreshold is the weight above which ExtraWeightFee is charged.
	ExtraWeightThreshold = decimal.NewFromInt(50)
	// ExtraWeightFee is a flat fee for heavy deliveries.
	ExtraWeightFee = decimal.NewFromInt(15)
	// DiscountThreshold is the subtotal above which DiscountRate is granted.
	DiscountThreshold = decimal.NewFromInt(500)
	// DiscountRate is the discount on large subtotals.
	DiscountRate = decimal.RequireFromString("0.10")
)

// MoneyPlaces is the number of decimal places kept at the storage boundary.
const MoneyPlaces = 2

// Input holds the pricing inputs of an order. All amounts must be
// non-negative; callers validate before calling Compute.
type Input struct {
	Distance  decimal.Decimal
	Weight    decimal.Decimal
	RatePerKm decimal.Decimal
	RatePerKg decimal.Decimal
	Urgent    bool
}

// Breakdown is the itemised result of Compute.
type Breakdown struct {
	DistanceCost decimal.Decimal
	WeightCost   decimal.Decimal
	Surcharge    decimal.Decimal
	ExtraFee     decimal.Decimal
	Discount     decimal.Decimal
	FinalPrice   decimal.Decimal
}

// Compute prices a delivery:
//
//  1. distance cost = distance * rate per km
//  2. weight cost = weight * rate per kg
//  3. subtotal = distance cost + weight cost
//  4. urgent: surcharge = 20% of subtotal, added to subtotal
//  5. weight > 50: extra fee of 15 added to subtotal, whatever the urgency
//  6. subtotal > 500: discount = 10% of subtotal, subtracted from subtotal
//
// The final price is the resulting subtotal.
func Compute(in Input) Breakdown {
	b := Breakdown{
		DistanceCost: in.Distance.Mul(in.RatePerKm),
		WeightCost:   in.Weight.Mul(in.RatePerKg),
		Surcharge:    decimal.Zero,
		ExtraFee:     decimal.Zero,
		Discount:     decimal.Zero,
	}
	subtotal := b.DistanceCost.Add(b.WeightCost)

	if in.Urgent {
		b.Surcharge = subtotal.Mul(UrgentSurchargeRate)
		subtotal = subtotal.Add(b.Surcharge)
	}

	if in.Weight.GreaterThan(ExtraWeightThreshold) {
		b.ExtraFee = ExtraWeightFee
		subtotal = subtotal.Add(b.ExtraFee)
	}

	if subtotal.GreaterThan(DiscountThreshold) {
		b.Discount = subtotal.Mul(DiscountRate)
		subtotal = subtotal.Sub(b.Discount)
	}

	b.FinalPrice = subtotal
	return b
}

// Round returns b with every component rounded to places decimal places.
func (b Breakdown) Round(places int32) Breakdown {
	return Breakdown{
		DistanceCost: b.DistanceCost.Round(places),
		WeightCost:   b.WeightCost.Round(places),
		Surcharge:    b.Surcharge.Round(places),
		ExtraFee:     b.ExtraFee.Round(places),
		Discount:     b.Discount.Round(places),
		FinalPrice:   b.FinalPrice.Round(places),
	}
}

// Equal reports whether every component of b equals the one in o.
func (b Breakdown) Equal(o Breakdown) bool {
	return b.DistanceCost.Equal(o.DistanceCost) &&
		b.WeightCost.Equal(o.WeightCost) &&
		b.Surcharge.Equal(o.Surcharge) &&
		b.ExtraFee.Equal(o.ExtraFee) &&
		b.Discount.Equal(o.Discount) &&
		b.FinalPrice.Equal(o.FinalPrice)
}
