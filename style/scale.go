package style

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/khankhulgun/khanstyle/models"
)

const scaledPrefix = "scaled("

// ComputedFieldName is the feature property holding the [0,1] scaled value of fieldName.
func ComputedFieldName(fieldName string) string {
	return scaledPrefix + fieldName + ")"
}

// IsComputedFieldName reports whether name was produced by ComputedFieldName.
func IsComputedFieldName(name string) bool {
	return strings.HasPrefix(name, scaledPrefix) && strings.HasSuffix(name, ")")
}

// ComputeScaledValues min-max scales fieldName across every feature of fc and stores
// the result under ComputedFieldName(fieldName). Values that do not parse as numbers
// are left out of min and max. When min equals max the division is not guarded and
// the scaled values come out as NaN or ±Inf. fieldName is appended to fc.Computed
// on every successful pass, rescaled or not.
func ComputeScaledValues(fc *models.FeatureCollection, fieldName string) bool {
	if fc == nil || len(fc.Features) == 0 {
		return false
	}

	min, max := math.Inf(1), math.Inf(-1)
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		v := parseFloat(f.Properties[fieldName])
		if math.IsNaN(v) {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}

	target := ComputedFieldName(fieldName)
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		if f.Properties == nil {
			f.Properties = map[string]any{}
		}
		raw, ok := f.Properties[fieldName]
		v := math.NaN()
		if ok {
			v = toNumber(raw)
		}
		f.Properties[target] = (v - min) / (max - min)
	}

	fc.Computed = append(fc.Computed, fieldName)
	return true
}

const decimalLiteral = `[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`

var (
	floatPrefix  = regexp.MustCompile(`^` + decimalLiteral)
	decimalExact = regexp.MustCompile(`^` + decimalLiteral + `$`)
	radixExact   = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`) // unsigned only
)

// parseDecimal converts a string already matched by decimalLiteral.
func parseDecimal(m string) float64 {
	m = strings.Replace(m, "Infinity", "Inf", 1)
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// exponent overflow still yields ±Inf with a range error
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

func parseRadix(s string) float64 {
	base := 16
	switch s[1] {
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	}
	n, ok := new(big.Int).SetString(s[2:], base)
	if !ok {
		return math.NaN()
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

// parseFloat reads the leading number of v, ignoring trailing garbage in strings.
func parseFloat(v any) float64 {
	switch n := v.(type) {
	case string:
		m := floatPrefix.FindString(strings.TrimSpace(n))
		if m == "" {
			return math.NaN()
		}
		return parseDecimal(m)
	case nil, bool:
		return math.NaN()
	}
	return toNumber(v)
}

// toNumber converts v the way arithmetic on a loosely typed value would.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	case nil:
		return 0
	case string:
		s := strings.TrimSpace(n)
		switch {
		case s == "":
			return 0
		case decimalExact.MatchString(s):
			return parseDecimal(s)
		case radixExact.MatchString(s):
			return parseRadix(s)
		}
		return math.NaN()
	}
	return math.NaN()
}
