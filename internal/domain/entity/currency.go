package entity

// Display names for the currencies the widget is most commonly used with.
// Codes outside the table fall back to the code itself; the table is a
// labeling convenience, not a validation list.
var currencyNames = map[string]string{
	"USD": "Dólar Estadounidense",
	"EUR": "Euro",
	"GBP": "Libra Esterlina",
	"JPY": "Yen Japonés",
	"MXN": "Peso Mexicano",
	"ARS": "Peso Argentino",
	"COP": "Peso Colombiano",
	"CLP": "Peso Chileno",
	"BRL": "Real Brasileño",
	"CAD": "Dólar Canadiense",
	"AUD": "Dólar Australiano",
	"CHF": "Franco Suizo",
	"CNY": "Yuan Chino",
	"PEN": "Sol Peruano",
	"UYU": "Peso Uruguayo",
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"PEN": "S/",
	"ARS": "$",
	"COP": "$",
	"CLP": "$",
	"MXN": "$",
	"BRL": "R$",
	"CAD": "$",
	"AUD": "$",
	"CHF": "CHF",
	"CNY": "¥",
}

// CurrencyName returns a human-readable name for a currency code.
func CurrencyName(code string) string {
	if name, ok := currencyNames[code]; ok {
		return name
	}
	return code
}

// CurrencySymbol returns the display symbol for a currency code.
func CurrencySymbol(code string) string {
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code
}
