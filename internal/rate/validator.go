package rate

import (
	"errors"
	"maps"
	"slices"

	"fxresolver/internal/domain"
)

var (
	ErrBaseRequired     = errors.New("base currency is required")
	ErrQuoteRequired    = errors.New("quote currency is required")
	ErrInvalidCode      = errors.New("currency code must be three letters")
	ErrBaseUnsupported  = errors.New("base currency not supported")
	ErrQuoteUnsupported = errors.New("quote currency not supported")
)

// CurrencyValidator checks codes against the configured currency set. A pair of
// equal codes is valid; it resolves to 1.
type CurrencyValidator struct {
	supportedCodesSet map[string]struct{} // read only copy
	supportedCodesLst []string            // read only copy
}

// ValidateCodes expects codes already trimmed and upper-cased.
func (v *CurrencyValidator) ValidateCodes(base, quote string) error {
	if base == "" {
		return ErrBaseRequired
	}
	if quote == "" {
		return ErrQuoteRequired
	}
	if !isCode(base) || !isCode(quote) {
		return ErrInvalidCode
	}
	if !v.Supported(base) {
		return ErrBaseUnsupported
	}
	if !v.Supported(quote) {
		return ErrQuoteUnsupported
	}
	return nil
}

func (v *CurrencyValidator) Supported(code string) bool {
	_, ok := v.supportedCodesSet[code]
	return ok
}

func (v *CurrencyValidator) SupportedCodes() []string {
	return slices.Clone(v.supportedCodesLst)
}

func isCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

func NewValidator(supportedCurrencies []string) *CurrencyValidator {
	codesSet := make(map[string]struct{}, len(supportedCurrencies))
	for _, code := range supportedCurrencies {
		if code = domain.NormalizeCode(code); code != "" {
			codesSet[code] = struct{}{}
		}
	}
	codesLst := slices.Collect(maps.Keys(codesSet))
	slices.Sort(codesLst)

	return &CurrencyValidator{
		supportedCodesSet: codesSet,
		supportedCodesLst: codesLst,
	}
}
