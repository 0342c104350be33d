package network

import (
	"strings"
)

// NormalizeID brings identifiers coming from different tables to the same
// string form. Spreadsheet exports often turn numeric codes into floats, so
// an integral "1234.0" is read back as "1234".
func NormalizeID(raw string) string {
	id := strings.TrimSpace(raw)
	if dot := strings.IndexByte(id, '.'); dot > 0 {
		intPart, frac := id[:dot], id[dot+1:]
		if isDigits(intPart) && frac != "" && strings.Trim(frac, "0") == "" {
			return intPart
		}
	}
	return id
}

// NormalizeName is the comparison form of a stop display name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
