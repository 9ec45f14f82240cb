package starsprotocol

import (
	"bytes"
	"strings"
	"unicode"
)

// Decoder turns a STARS byte stream into messages.
//
// Bytes are appended to an accumulator; a frame is extracted only once its
// newline has been seen, so frames split across any number of reads, or
// several frames delivered by one read, decode the same as a single
// contiguous buffer. A Decoder is not safe for concurrent use.
type Decoder struct {
	acc []byte
	max int
}

// NewDecoder creates an empty decoder without a frame size limit.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// NewDecoderLimit creates an empty decoder that refuses unterminated
// frames longer than max bytes. Zero or less means no limit.
func NewDecoderLimit(max int) *Decoder {
	return &Decoder{max: max}
}

// Write appends p to the accumulator. With a limit set, it fails with
// ErrFrameTooLong, and drops everything buffered, when the unterminated
// tail would grow past it.
func (d *Decoder) Write(p []byte) (int, error) {
	d.acc = append(d.acc, p...)
	if d.max <= 0 {
		return len(p), nil
	}
	tail := d.acc
	if i := bytes.LastIndexByte(tail, FrameTerminator); i >= 0 {
		tail = tail[i+1:]
	}
	if len(tail) > d.max {
		d.Reset()
		return len(p), ErrFrameTooLong
	}
	return len(p), nil
}

// Next extracts the first complete frame, if any.
func (d *Decoder) Next() (Message, bool) {
	i := bytes.IndexByte(d.acc, FrameTerminator)
	if i < 0 {
		return Message{}, false
	}
	line := strings.ReplaceAll(string(d.acc[:i]), "\r", "")

	n := copy(d.acc, d.acc[i+1:])
	d.acc = d.acc[:n]

	return ParseMessage(line), true
}

// Decode appends p and returns every frame completed by it, in order.
func (d *Decoder) Decode(p []byte) ([]Message, error) {
	if _, err := d.Write(p); err != nil {
		return nil, err
	}
	var out []Message
	for {
		m, ok := d.Next()
		if !ok {
			return out, nil
		}
		out = append(out, m)
	}
}

// Buffered returns the number of bytes not yet consumed by Next.
func (d *Decoder) Buffered() int {
	return len(d.acc)
}

// Reset drops all buffered bytes.
func (d *Decoder) Reset() {
	d.acc = d.acc[:0]
}

// ParseMessage splits one frame (without its terminator) into fields.
//
// Everything before the first '>' is the sender; the receiver and the
// command each end at the next space; the parameters are the rest of the
// line and may contain spaces. A line without '>' is carried whole in
// From.
func ParseMessage(line string) Message {
	from, rest, ok := strings.Cut(line, string(AddressSeparator))
	if !ok {
		return Message{From: line}
	}
	m := Message{From: strings.TrimRightFunc(from, unicode.IsSpace)}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)

	to, rest, ok := strings.Cut(rest, string(FieldSeparator))
	if !ok {
		m.To = to
		return m
	}
	m.To = to
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)

	command, params, ok := strings.Cut(rest, string(FieldSeparator))
	if !ok {
		m.Command = command
		return m
	}
	m.Command = command
	m.Parameters = strings.TrimLeftFunc(params, unicode.IsSpace)
	return m
}
