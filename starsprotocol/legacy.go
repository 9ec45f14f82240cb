package starsprotocol

// legacyDelimiters holds the byte that closes each field level: '>' ends
// the sender, the first space ends the receiver, the second space ends the
// command. The parameters run to the newline.
var legacyDelimiters = [4]byte{'>', ' ', ' ', '\n'}

// LegacyDecoder is the byte-level field state machine used by earlier
// STARS clients. It decodes canonical frames exactly like Decoder but does
// not trim whitespace around separators, so it is kept for verifying peers
// that depend on the old behaviour.
type LegacyDecoder struct {
	level  int
	fields [4][]byte
	ready  []Message
}

// NewLegacyDecoder creates an empty legacy decoder.
func NewLegacyDecoder() *LegacyDecoder {
	return &LegacyDecoder{}
}

// Write feeds p through the state machine. It never fails.
func (d *LegacyDecoder) Write(p []byte) (int, error) {
	for _, b := range p {
		switch {
		case b == '\r':
			continue
		case b == FrameTerminator:
			d.ready = append(d.ready, Message{
				From:       string(d.fields[0]),
				To:         string(d.fields[1]),
				Command:    string(d.fields[2]),
				Parameters: string(d.fields[3]),
			})
			d.clearFields()
		case b == legacyDelimiters[d.level]:
			d.level++
		default:
			d.fields[d.level] = append(d.fields[d.level], b)
		}
	}
	return len(p), nil
}

// Next returns the oldest completed frame, if any.
func (d *LegacyDecoder) Next() (Message, bool) {
	if len(d.ready) == 0 {
		return Message{}, false
	}
	m := d.ready[0]
	d.ready = d.ready[1:]
	return m, true
}

// Decode feeds p and returns every frame completed by it, in order.
func (d *LegacyDecoder) Decode(p []byte) []Message {
	d.Write(p)
	out := d.ready
	d.ready = nil
	return out
}

// Reset drops the frame in progress and any undelivered frames.
func (d *LegacyDecoder) Reset() {
	d.clearFields()
	d.ready = nil
}

func (d *LegacyDecoder) clearFields() {
	for i := range d.fields {
		d.fields[i] = d.fields[i][:0]
	}
	d.level = 0
}
