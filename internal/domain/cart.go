package domain

// Direction selects how AdjustQuantity changes a line.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)

// Valid reports whether d is a recognized direction.
func (d Direction) Valid() bool {
	return d == DirectionIncrease || d == DirectionDecrease
}

// The cart engine: pure transformations over a cart slice. Callers own
// persistence; none of these functions touch storage. The line key is the
// catalog product id, uniformly.
//
// All functions return a fresh slice and leave the input untouched, so a
// caller can compare before/after states.

// MergeLine merges a snapshot line into the cart. If a line with the same
// product id exists, only its quantity is incremented by one; the stored
// snapshot fields are kept as-is. Otherwise the line is appended with
// quantity 1. The invariant of at most one line per product id holds.
func MergeLine(cart []CartLine, line CartLine) []CartLine {
	next := make([]CartLine, len(cart))
	copy(next, cart)

	for i := range next {
		if next[i].ProductID == line.ProductID {
			next[i].Quantity++
			return next
		}
	}

	line.Quantity = 1
	return append(next, line)
}

// AdjustQuantity increments or decrements the quantity of the line keyed by
// productID. Decrease never takes a quantity below 1 and never removes the
// line. A missing line or an unknown direction is a silent no-op.
func AdjustQuantity(cart []CartLine, productID string, dir Direction) []CartLine {
	next := make([]CartLine, len(cart))
	copy(next, cart)

	for i := range next {
		if next[i].ProductID != productID {
			continue
		}
		switch dir {
		case DirectionIncrease:
			next[i].Quantity++
		case DirectionDecrease:
			if next[i].Quantity > 1 {
				next[i].Quantity--
			}
		}
		break
	}

	return next
}

// RemoveLine filters out the line keyed by productID. No match leaves the
// cart unchanged; removal is the only way a line's quantity reaches zero.
func RemoveLine(cart []CartLine, productID string) []CartLine {
	next := make([]CartLine, 0, len(cart))
	for _, l := range cart {
		if l.ProductID == productID {
			continue
		}
		next = append(next, l)
	}
	return next
}

// TotalPrice sums price * quantity over all lines, in cents. Display only;
// the total is never stored.
func TotalPrice(cart []CartLine) int64 {
	var total int64
	for _, l := range cart {
		total += l.LineSubtotal()
	}
	return total
}

// ItemCount sums the quantities of all lines.
func ItemCount(cart []CartLine) int {
	var n int
	for _, l := range cart {
		n += int(l.Quantity)
	}
	return n
}
