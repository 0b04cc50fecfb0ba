package model

import "fmt"

// FormatCents renders integer cents as a dollar string, e.g. -1250 → "-$12.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
