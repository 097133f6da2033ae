package format

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// PriceOnRequest is shown for products without a pricing match.
const PriceOnRequest = "Precio a consultar"

// COP formats whole Colombian pesos with "." as the thousands separator.
// Example: COP(25000) => "$25.000"
func COP(pesos int64) string {
	if pesos < 0 {
		return "-$" + thousandSep(-pesos)
	}
	return "$" + thousandSep(pesos)
}

// PriceLabel renders a price with its unit, e.g. "$25.000 / unidad".
// A nil price yields PriceOnRequest.
func PriceLabel(price *int64, unit string) string {
	if price == nil {
		return PriceOnRequest
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return COP(*price)
	}
	return fmt.Sprintf("%s / %s", COP(*price), unit)
}

// StockLabel describes availability. Unknown stock renders as an empty string.
func StockLabel(stock *int) string {
	switch {
	case stock == nil:
		return ""
	case *stock <= 0:
		return "Agotado"
	case *stock == 1:
		return "Última unidad disponible"
	case *stock <= 5:
		return fmt.Sprintf("Últimas %d unidades", *stock)
	default:
		return "Disponible"
	}
}

// WhatsAppLink builds a wa.me link with a prefilled message.
func WhatsAppLink(number, message string) string {
	link := "https://wa.me/" + number
	if message = strings.TrimSpace(message); message != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link
}

func thousandSep(n int64) string {
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return b.String()
}
