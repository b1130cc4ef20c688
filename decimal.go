package nodela

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
)

// decimalPattern is the JSON number grammar.
var decimalPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Decimal is a monetary amount kept exactly as it appeared on the wire. The
// API sends some amounts as JSON strings ("100.50") and others as numbers;
// a Decimal remembers which and re-encodes to the same bytes.
//
// The zero Decimal holds no value and encodes as null.
type Decimal struct {
	text   string
	quoted bool
}

// ParseDecimal parses s as a decimal number. The result encodes as a JSON
// number.
func ParseDecimal(s string) (Decimal, error) {
	if !decimalPattern.MatchString(s) {
		return Decimal{}, fmt.Errorf("invalid decimal %q", s)
	}
	return Decimal{text: s}, nil
}

// MustDecimal is like ParseDecimal but panics on invalid input.
func MustDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DecimalFromFloat returns the shortest decimal representation of f.
func DecimalFromFloat(f float64) Decimal {
	return Decimal{text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// String returns the decimal text as received or parsed.
func (d Decimal) String() string {
	return d.text
}

// IsZero reports whether d holds no value. A Decimal holding "0" is not zero
// in this sense; use Sign for that.
func (d Decimal) IsZero() bool {
	return d.text == ""
}

// Quoted reports whether d is encoded as a JSON string.
func (d Decimal) Quoted() bool {
	return d.quoted
}

// Rat returns the exact value of d, or nil if d holds no value.
func (d Decimal) Rat() *big.Rat {
	if d.text == "" {
		return nil
	}
	r, ok := new(big.Rat).SetString(d.text)
	if !ok {
		return nil
	}
	return r
}

// Sign returns -1, 0 or +1 depending on the sign of d. An empty Decimal has
// sign 0.
func (d Decimal) Sign() int {
	r := d.Rat()
	if r == nil {
		return 0
	}
	return r.Sign()
}

// Float64 returns the nearest float64 to d. Use it for display only.
func (d Decimal) Float64() float64 {
	f, _ := strconv.ParseFloat(d.text, 64)
	return f
}

// MarshalJSON implements json.Marshaler.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if d.text == "" {
		return []byte("null"), nil
	}
	if d.quoted {
		return []byte(`"` + d.text + `"`), nil
	}
	return []byte(d.text), nil
}

// UnmarshalJSON implements json.Unmarshaler. It accepts a JSON number or a
// string holding one.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = Decimal{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if !decimalPattern.MatchString(s) {
			return fmt.Errorf("invalid decimal %q", s)
		}
		*d = Decimal{text: s, quoted: true}
		return nil
	}

	if !decimalPattern.Match(data) {
		return fmt.Errorf("expected decimal, got %s", data)
	}
	*d = Decimal{text: string(data)}
	return nil
}
