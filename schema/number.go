package schema

import (
	"bytes"
	"math/big"
	"strings"

	json "github.com/goccy/go-json"
)

// parseNumber reads a JSON number literal, keeping its text.
func parseNumber(raw json.RawMessage) (json.Number, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return "", false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false
	}
	if _, ok := new(big.Rat).SetString(n.String()); !ok {
		return "", false
	}
	return n, true
}

// CompareNumbers compares two JSON numbers exactly, so 9007199254740993 and
// 9007199254740992 differ and 1, 1.0 and 1e0 are equal. It returns -1, 0 or +1.
func CompareNumbers(a, b json.Number) int {
	ra, okA := new(big.Rat).SetString(a.String())
	rb, okB := new(big.Rat).SetString(b.String())
	if !okA || !okB {
		return strings.Compare(a.String(), b.String())
	}
	return ra.Cmp(rb)
}
