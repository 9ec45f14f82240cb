package starsprotocol

import (
	"strconv"
	"strings"
)

// The To*Array helpers decode a separator-delimited parameter string into
// a numeric slice. A single malformed element makes the whole result an
// empty slice; they never return an error.

// ToInt16Array decodes s as int16 values separated by sep.
func ToInt16Array(s string, sep rune) []int16 {
	return convertParams(s, sep, func(v string) (int16, error) {
		n, err := strconv.ParseInt(v, 10, 16)
		return int16(n), err
	})
}

// ToUint16Array decodes s as uint16 values separated by sep.
func ToUint16Array(s string, sep rune) []uint16 {
	return convertParams(s, sep, func(v string) (uint16, error) {
		n, err := strconv.ParseUint(v, 10, 16)
		return uint16(n), err
	})
}

// ToInt32Array decodes s as int32 values separated by sep.
func ToInt32Array(s string, sep rune) []int32 {
	return convertParams(s, sep, func(v string) (int32, error) {
		n, err := strconv.ParseInt(v, 10, 32)
		return int32(n), err
	})
}

// ToUint32Array decodes s as uint32 values separated by sep.
func ToUint32Array(s string, sep rune) []uint32 {
	return convertParams(s, sep, func(v string) (uint32, error) {
		n, err := strconv.ParseUint(v, 10, 32)
		return uint32(n), err
	})
}

// ToInt64Array decodes s as int64 values separated by sep.
func ToInt64Array(s string, sep rune) []int64 {
	return convertParams(s, sep, func(v string) (int64, error) {
		return strconv.ParseInt(v, 10, 64)
	})
}

// ToUint64Array decodes s as uint64 values separated by sep.
func ToUint64Array(s string, sep rune) []uint64 {
	return convertParams(s, sep, func(v string) (uint64, error) {
		return strconv.ParseUint(v, 10, 64)
	})
}

// ToFloat32Array decodes s as float32 values separated by sep.
func ToFloat32Array(s string, sep rune) []float32 {
	return convertParams(s, sep, func(v string) (float32, error) {
		f, err := strconv.ParseFloat(v, 32)
		return float32(f), err
	})
}

// ToFloat64Array decodes s as float64 values separated by sep.
func ToFloat64Array(s string, sep rune) []float64 {
	return convertParams(s, sep, func(v string) (float64, error) {
		return strconv.ParseFloat(v, 64)
	})
}

// ToBoolArray decodes s as integers separated by sep; any non-zero value
// is true.
func ToBoolArray(s string, sep rune) []bool {
	return convertParams(s, sep, func(v string) (bool, error) {
		n, err := strconv.ParseInt(v, 10, 32)
		return n != 0, err
	})
}

func convertParams[T any](s string, sep rune, conv func(string) (T, error)) []T {
	parts := strings.Split(s, string(sep))
	out := make([]T, len(parts))
	for i, p := range parts {
		v, err := conv(strings.TrimSpace(p))
		if err != nil {
			return []T{}
		}
		out[i] = v
	}
	return out
}
