package model

// Currency is a currency code as supplied by the rate source. Case is kept
// verbatim; no ISO-4217 validation is applied.
type Currency string

func (c Currency) String() string {
	return string(c)
}

// IsZero reports whether no currency has been chosen yet.
func (c Currency) IsZero() bool {
	return c == ""
}

// Contains reports whether code occurs in codes.
func Contains(codes []Currency, code Currency) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
