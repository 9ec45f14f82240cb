package starsprotocol

import (
	"fmt"
	"strings"
)

// Message is one decoded STARS frame.
//
// Messages are plain values. The decoder builds a fresh Message for every
// frame and the dispatcher hands each observer its own copy, so no caller
// ever shares a Message with another.
type Message struct {
	From       string
	To         string
	Command    string
	Parameters string
}

// NewMessage creates a message from its four fields.
func NewMessage(from, to, command, parameters string) Message {
	return Message{
		From:       from,
		To:         to,
		Command:    command,
		Parameters: parameters,
	}
}

// CombinedCommand returns the command followed by its parameters, or the
// command alone when there are no parameters.
func (m Message) CombinedCommand() string {
	if m.Parameters == "" {
		return m.Command
	}
	return m.Command + " " + m.Parameters
}

// WireForm returns the message as it is written on the wire, without the
// frame terminator.
func (m Message) WireForm() string {
	return m.From + string(AddressSeparator) + m.To + " " + m.CombinedCommand()
}

// String implements fmt.Stringer.
func (m Message) String() string {
	return m.WireForm()
}

// IsZero reports whether all fields are empty.
func (m Message) IsZero() bool {
	return m == Message{}
}

// Validate checks that the fields can be framed without changing meaning
// when the message is parsed back.
func (m Message) Validate() error {
	fields := []struct {
		name  string
		value string
		bad   string
	}{
		{"from", m.From, "\n\r>"},
		{"to", m.To, "\n\r> "},
		{"command", m.Command, "\n\r "},
		{"parameters", m.Parameters, "\n\r"},
	}
	for _, f := range fields {
		if i := strings.IndexAny(f.value, f.bad); i >= 0 {
			return fmt.Errorf("%w: %s contains %q", ErrInvalidField, f.name, f.value[i])
		}
	}
	return nil
}

// ParamStrings splits the parameters on sep.
func (m Message) ParamStrings(sep rune) []string {
	return strings.Split(m.Parameters, string(sep))
}

// ParamInt16s decodes the parameters as int16 values.
func (m Message) ParamInt16s(sep rune) []int16 { return ToInt16Array(m.Parameters, sep) }

// ParamUint16s decodes the parameters as uint16 values.
func (m Message) ParamUint16s(sep rune) []uint16 { return ToUint16Array(m.Parameters, sep) }

// ParamInt32s decodes the parameters as int32 values.
func (m Message) ParamInt32s(sep rune) []int32 { return ToInt32Array(m.Parameters, sep) }

// ParamUint32s decodes the parameters as uint32 values.
func (m Message) ParamUint32s(sep rune) []uint32 { return ToUint32Array(m.Parameters, sep) }

// ParamInt64s decodes the parameters as int64 values.
func (m Message) ParamInt64s(sep rune) []int64 { return ToInt64Array(m.Parameters, sep) }

// ParamUint64s decodes the parameters as uint64 values.
func (m Message) ParamUint64s(sep rune) []uint64 { return ToUint64Array(m.Parameters, sep) }

// ParamFloat32s decodes the parameters as float32 values.
func (m Message) ParamFloat32s(sep rune) []float32 { return ToFloat32Array(m.Parameters, sep) }

// ParamFloat64s decodes the parameters as float64 values.
func (m Message) ParamFloat64s(sep rune) []float64 { return ToFloat64Array(m.Parameters, sep) }

// ParamBools decodes the parameters as integers, non-zero meaning true.
func (m Message) ParamBools(sep rune) []bool { return ToBoolArray(m.Parameters, sep) }
