package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiah = message.NewPrinter(language.Indonesian)

// String formats the amount as Indonesian rupiah, e.g. "Rp 999.000".
func (m Money) String() string {
	return rupiah.Sprintf("Rp %d", int64(m))
}

// ShippingLabel renders a shipping fee, showing zero as "Free".
func ShippingLabel(m Money) string {
	if m == 0 {
		return "Free"
	}
	return m.String()
}
