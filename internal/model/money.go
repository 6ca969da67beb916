package model

import "fmt"

// Centavos stores a monetary amount as an integer count of hundredths of a
// real.  All prices, debts and spending limits in the system are held in
// this unit so that limit comparisons never suffer floating-point drift.
type Centavos int64

// String renders the amount in the familiar "R$ 12,50" form used on
// receipts and terminal screens.
func (c Centavos) String() string {
	neg := ""
	v := int64(c)
	if v < 0 {
		neg = "-"
		v = -v
	}
	return fmt.Sprintf("%sR$ %d,%02d", neg, v/100, v%100)
}
