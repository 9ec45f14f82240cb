package starsprotocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt16Array(t *testing.T) {
	assert.Equal(t, []int16{1, -2, 32767}, ToInt16Array("1 -2 32767", ' '))
	assert.Equal(t, []int16{}, ToInt16Array("1 32768", ' '))
	assert.Equal(t, []int16{}, ToInt16Array("", ' '))
}

func TestToUint16Array(t *testing.T) {
	assert.Equal(t, []uint16{0, 65535}, ToUint16Array("0,65535", ','))
	assert.Equal(t, []uint16{}, ToUint16Array("0,-1", ','))
}

func TestToInt32Array(t *testing.T) {
	assert.Equal(t, []int32{10, 20, 30}, ToInt32Array("10 20 30", ' '))
	assert.Equal(t, []int32{10, 20, 30}, ToInt32Array(" 10 ; 20 ;30", ';'))
	assert.Equal(t, []int32{}, ToInt32Array("10 x 30", ' '))
}

func TestToUint32Array(t *testing.T) {
	assert.Equal(t, []uint32{4294967295}, ToUint32Array("4294967295", ' '))
	assert.Equal(t, []uint32{}, ToUint32Array("4294967296", ' '))
}

func TestToInt64Array(t *testing.T) {
	assert.Equal(t, []int64{-9223372036854775808, 0}, ToInt64Array("-9223372036854775808 0", ' '))
	assert.Equal(t, []int64{}, ToInt64Array("1.5", ' '))
}

func TestToUint64Array(t *testing.T) {
	assert.Equal(t, []uint64{18446744073709551615}, ToUint64Array("18446744073709551615", ' '))
	assert.Equal(t, []uint64{}, ToUint64Array("-1", ' '))
}

func TestToFloatArrays(t *testing.T) {
	assert.Equal(t, []float64{1.5, -2, 3e3}, ToFloat64Array("1.5 -2 3e3", ' '))
	assert.Equal(t, []float32{0.25, 4}, ToFloat32Array("0.25,4", ','))
	assert.Equal(t, []float64{}, ToFloat64Array("1.5 abc", ' '))
}

func TestToBoolArray(t *testing.T) {
	assert.Equal(t, []bool{false, true, true}, ToBoolArray("0 1 -5", ' '))
	assert.Equal(t, []bool{}, ToBoolArray("true false", ' '))
}

// Consecutive separators produce an empty element, which fails the whole
// conversion.
func TestArrayDoubleSeparator(t *testing.T) {
	assert.Equal(t, []int32{}, ToInt32Array("1  2", ' '))
}
