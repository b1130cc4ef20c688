package nodela

import (
	"slices"
	"strings"
)

// supportedCurrencies are the ISO 4217 codes an invoice may be priced in.
var supportedCurrencies = []string{
	// Americas
	"USD", "CAD", "MXN", "BRL", "ARS", "CLP", "COP", "PEN", "JMD", "TTD",
	// Europe
	"EUR", "GBP", "CHF", "SEK", "NOK", "DKK", "PLN", "CZK", "HUF", "RON",
	"BGN", "HRK", "ISK", "TRY", "RUB", "UAH",
	// Africa
	"NGN", "ZAR", "KES", "GHS", "EGP", "MAD", "TZS", "UGX", "XOF", "XAF", "ETB",
	// Asia
	"JPY", "CNY", "INR", "KRW", "IDR", "MYR", "THB", "PHP", "VND", "SGD",
	"HKD", "TWD", "BDT", "PKR", "LKR",
	// Middle East
	"AED", "SAR", "QAR", "KWD", "BHD", "OMR", "ILS", "JOD",
	// Oceania
	"AUD", "NZD", "FJD",
}

var currencySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(supportedCurrencies))
	for _, c := range supportedCurrencies {
		set[c] = struct{}{}
	}
	return set
}()

// SupportedCurrencies returns the currency codes accepted by
// InvoiceService.Create, grouped by region.
func SupportedCurrencies() []string {
	return slices.Clone(supportedCurrencies)
}

// IsSupportedCurrency reports whether code, in any letter case, is a
// supported invoice currency.
func IsSupportedCurrency(code string) bool {
	_, ok := currencySet[normalizeCurrency(code)]
	return ok
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
