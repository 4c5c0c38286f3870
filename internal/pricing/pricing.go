package pricing

// Flat delivery fee, applied when the delivery method is MethodDeliver.
const DeliveryFee int64 = 20000

// DiscountPercent is a uniform demo discount applied on the item subtotal
// when the client sets the discount flag. There is no promotions engine
// behind it.
const DiscountPercent int64 = 10

const (
	MethodDeliver = "deliver"
	MethodPickup  = "pickup"
)

// LineTotal is (base price + size modifier) x quantity. Prices are VND, so
// plain int64 arithmetic is exact.
func LineTotal(basePrice, sizeModifier int64, quantity uint) int64 {
	return (basePrice + sizeModifier) * int64(quantity)
}

func Subtotal(lineTotals []int64) int64 {
	var total int64
	for _, lt := range lineTotals {
		total += lt
	}
	return total
}

// Payable adds the delivery fee for home delivery and subtracts the discount.
// The discount is computed on the item subtotal, not on subtotal plus fee.
func Payable(subtotal int64, deliveryMethod string, discount bool) int64 {
	total := subtotal
	if deliveryMethod == MethodDeliver {
		total += DeliveryFee
	}
	if discount {
		total -= subtotal * DiscountPercent / 100
	}
	return total
}
