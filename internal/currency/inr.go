// Package currency renders rupee amounts using the Indian numbering system,
// mirroring what Intl.NumberFormat("en-IN") produces on the client. Amounts
// this service emits are display strings, never inputs to further arithmetic.
package currency

import (
	"math"
	"strconv"
	"strings"
)

// Zero is the canonical rendering for anything that is not a finite number.
const Zero = "₹0.00"

// FormatINR renders a value as rupees with exactly two fraction digits and
// lakh/crore grouping, e.g. 100000 -> "₹1,00,000.00". NaN and infinities
// format as Zero. Rounding to paise is half away from zero.
func FormatINR(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Zero
	}
	paise := int64(math.Round(math.Abs(value) * 100))
	rupees := paise / 100
	fraction := paise % 100

	var b strings.Builder
	if math.Signbit(value) && paise != 0 {
		b.WriteByte('-')
	}
	b.WriteString("₹")
	b.WriteString(groupIndian(strconv.FormatInt(rupees, 10)))
	b.WriteByte('.')
	if fraction < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(fraction, 10))
	return b.String()
}

// groupIndian inserts separators per the Indian convention: the last three
// digits form one group, every group before it has two digits.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)
	return strings.Join(groups, ",")
}
