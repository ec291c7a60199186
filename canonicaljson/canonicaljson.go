// Package canonicaljson renders JSON values in the RFC 8785 (JCS) canonical form.
//
// rpcdiff compares schema literals (const and enum members) by their canonical
// bytes, and reports const changes with the canonical text, so "1.0" and "1",
// or objects with reordered members, are the same literal.
package canonicaljson

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	json "github.com/goccy/go-json"
)

// Marshal returns the canonical encoding of v. Raw JSON ([]byte or json.RawMessage)
// is re-encoded; any other value is first encoded with the standard rules.
//
// Object members are sorted by UTF-16 code units, numbers use the ECMAScript
// shortest form, and the output carries no insignificant whitespace.
func Marshal(v any) ([]byte, error) {
	raw, err := toRaw(v)
	if err != nil {
		return nil, err
	}
	val, err := decode(raw)
	if err != nil {
		return nil, err
	}
	var e encoder
	if err := e.value(val); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// String is Marshal returning a string.
func String(v any) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Equal reports whether two JSON texts denote the same value.
// Malformed input is never equal to anything.
func Equal(a, b []byte) bool {
	ca, err := Marshal(a)
	if err != nil {
		return false
	}
	cb, err := Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

func toRaw(v any) ([]byte, error) {
	switch x := v.(type) {
	case json.RawMessage:
		return x, nil
	case []byte:
		return x, nil
	default:
		return json.Marshal(v)
	}
}

func decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	switch err := dec.Decode(&extra); {
	case err == io.EOF:
		return v, nil
	case err == nil:
		return nil, errors.New("invalid JSON: trailing data")
	default:
		return nil, err
	}
}

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) value(v any) error {
	switch x := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		e.buf.WriteString(strconv.FormatBool(x))
	case string:
		e.str(x)
	case json.Number:
		f, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			return err
		}
		return e.num(f)
	case float64:
		return e.num(x)
	case []any:
		e.buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.value(item); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
	case map[string]any:
		return e.object(x)
	default:
		return errors.New("unsupported JSON value type")
	}
	return nil
}

func (e *encoder) object(m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessUTF16(keys[i], keys[j]) })

	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.str(k)
		e.buf.WriteByte(':')
		if err := e.value(m[k]); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}

// shortEscapes are the control characters RFC 8785 requires in two-character form.
var shortEscapes = map[rune]string{
	'\\': `\\`,
	'"':  `\"`,
	'\b': `\b`,
	'\t': `\t`,
	'\n': `\n`,
	'\f': `\f`,
	'\r': `\r`,
}

func (e *encoder) str(s string) {
	e.buf.WriteByte('"')
	for _, r := range s {
		if esc, ok := shortEscapes[r]; ok {
			e.buf.WriteString(esc)
			continue
		}
		if r <= 0x1F {
			e.buf.WriteString(`\u00`)
			e.buf.WriteString(hex.EncodeToString([]byte{byte(r)}))
			continue
		}
		e.buf.WriteRune(r)
	}
	e.buf.WriteByte('"')
}

func (e *encoder) num(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("invalid JSON number: NaN or Infinity")
	}
	if f == 0 {
		e.buf.WriteByte('0')
		return nil
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		e.buf.WriteString(trimExponent(strconv.FormatFloat(f, 'e', -1, 64)))
		return nil
	}
	e.buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// trimExponent drops the zero padding Go puts in exponents ("1e-07" becomes "1e-7").
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	exp := strings.TrimLeft(s[i+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return s[:i+2] + exp
}
