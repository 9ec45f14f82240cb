// =============================================================================
// repl.go - Read-Eval-Print Loop
// =============================================================================
//
// The REPL reads a line, handles it as a dot-command or translates it into
// a send, and prints the outcome. Incoming messages are printed by
// .receive, or by a subscriber once .listen has switched the client to
// callback mode. In that case the subscriber runs on the client's
// dispatcher goroutine, so all output goes through the line editor's
// goroutine-safe writer and the last message is guarded by a mutex.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/IMSS-PhotonFactory/StarsInterface2/starsprotocol"
)

// GO CONCEPT: Struct Fields Guarded by a Mutex
// --------------------------------------------
// Fields below mu are touched by two goroutines: the REPL loop and, once
// .listen is active, the client's dispatcher. Grouping them under the
// mutex that guards them is a common Go layout convention; fields above
// mu are set once in newREPL and only read afterwards.
type repl struct {
	client *starsprotocol.Client
	editor *LineEditor
	out    io.Writer

	mu        sync.Mutex
	last      starsprotocol.Message
	haveLast  bool
	listening bool
}

func newREPL(client *starsprotocol.Client, editor *LineEditor) *repl {
	return &repl{
		client: client,
		editor: editor,
		out:    editor.Writer(),
	}
}

func (r *repl) prompt() string {
	node := r.client.Config().NodeName
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listening {
		return "[listen] " + node + "> "
	}
	return node + "> "
}

// run processes input until .quit or end of input.
func (r *repl) run() {
	for {
		line, err := r.editor.GetLine(r.prompt())
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.printf("Error: %v\n", err)
			}
			r.printf("\n")
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := r.dotCommand(line); quit {
				return
			}
			continue
		}

		o, err := translateInput(line)
		if err != nil {
			r.printf("Error: %v\n", err)
			continue
		}
		if err := o.send(r.client); err != nil {
			r.reportError(err)
		}
	}
}

// dotCommand executes a dot-command. It returns true for .quit.
func (r *repl) dotCommand(line string) bool {
	word, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)

	// GO CONCEPT: strings.Cut
	// -----------------------
	// Cut splits around the first separator and reports whether it was
	// found. ".receive 2.5" yields ".receive" and "2.5"; ".status" yields
	// ".status" and "". It replaces the SplitN(s, sep, 2) plus length check
	// idiom.
	switch strings.ToLower(word) {
	case ".quit", ".exit":
		return true
	case ".help":
		printHelp(r.out, args)
	case ".receive":
		r.receive(args)
	case ".listen":
		r.listen()
	case ".status":
		r.status()
	case ".timeout":
		r.timeout(args)
	case ".params":
		r.params(args)
	default:
		r.printf("Error: Unknown command '%s'. Type .help for available commands.\n", word)
	}
	return false
}

func (r *repl) receive(args string) {
	var (
		m   starsprotocol.Message
		err error
	)
	if args == "" {
		m, err = r.client.Receive()
	} else {
		var secs float64
		secs, err = parseSeconds(args)
		if err != nil {
			r.printf("Error: %v\n", err)
			return
		}
		m, err = r.client.ReceiveWithTimeout(starsprotocol.TimeoutFromSeconds(secs))
	}
	if err != nil {
		r.reportError(err)
		return
	}
	r.setLast(m)
	r.printf("%s\n", formatMessage(m))
}

// listen switches the client to callback mode with a printing subscriber.
func (r *repl) listen() {
	r.mu.Lock()
	already := r.listening
	r.mu.Unlock()
	if already {
		r.printf("Already listening\n")
		return
	}

	id := r.client.Subscribe(func(m starsprotocol.Message) {
		r.setLast(m)
		r.printf("%s\n", formatMessage(m))
	})
	if !r.client.EnableCallbackMode() {
		r.client.Unsubscribe(id)
		r.reportError(starsprotocol.ErrNotConnected)
		return
	}

	r.mu.Lock()
	r.listening = true
	r.mu.Unlock()
	r.printf("Listening for incoming messages\n")
}

func (r *repl) status() {
	st := r.client.Stats()
	cfg := r.client.Config()

	r.printf("Node:        %s\n", cfg.NodeName)
	r.printf("Server:      %s\n", cfg.Address())
	r.printf("Connected:   %s\n", yesNo(st.Connected))
	if st.Connected {
		r.printf("Since:       %s\n", st.ConnectedAt.Format(time.RFC3339))
	}
	r.printf("Listening:   %s\n", yesNo(st.CallbackMode))
	r.printf("Sent:        %d\n", st.FramesSent)
	r.printf("Received:    %d\n", st.FramesReceived)
	r.printf("Timeout:     %s\n", formatTimeout(r.client.DefaultTimeout()))
}

func (r *repl) timeout(args string) {
	if args == "" {
		r.printf("Timeout: %s\n", formatTimeout(r.client.DefaultTimeout()))
		return
	}
	secs, err := parseSeconds(args)
	if err != nil {
		r.printf("Error: %v\n", err)
		return
	}
	r.client.SetDefaultTimeout(starsprotocol.TimeoutFromSeconds(secs))
	r.printf("Timeout: %s\n", formatTimeout(r.client.DefaultTimeout()))
}

func (r *repl) params(args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		r.printf("Error: usage: .params <sep> <type>\n")
		return
	}
	sep, err := parseSeparator(fields[0])
	if err != nil {
		r.printf("Error: %v\n", err)
		return
	}

	m, ok := r.lastMessage()
	if !ok {
		r.printf("Error: no message received yet\n")
		return
	}

	values, err := decodeParams(m, sep, strings.ToLower(fields[1]))
	if err != nil {
		r.printf("Error: %v\n", err)
		return
	}
	r.printf("%s\n", values)
}

// reportError prints err, adding a hint when the connection is gone.
func (r *repl) reportError(err error) {
	// GO CONCEPT: errors.As and errors.Is
	// ------------------------------------
	// The client wraps its failures, so comparing with == would miss them.
	// errors.Is walks the Unwrap chain looking for a sentinel value;
	// errors.As walks it looking for a type and fills in the target:
	//
	//   var terr *starsprotocol.TimeoutError
	//   if errors.As(err, &terr) { ... terr.Message ... }
	var terr *starsprotocol.TimeoutError
	switch {
	case errors.As(err, &terr):
		r.printf("No message received in time\n")
	case errors.Is(err, starsprotocol.ErrCallbackMode):
		r.printf("Error: listening; incoming messages are printed as they arrive\n")
	case errors.Is(err, starsprotocol.ErrNotConnected):
		r.printf("Error: not connected to the server. Type .quit to exit.\n")
	default:
		r.printf("Error: %v\n", err)
		if !r.client.IsConnected() {
			r.printf("Connection lost. Type .quit to exit.\n")
		}
	}
}

func (r *repl) setLast(m starsprotocol.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = m
	r.haveLast = true
}

func (r *repl) lastMessage() (starsprotocol.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.haveLast
}

func (r *repl) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// =============================================================================
// Formatting helpers
// =============================================================================

// formatMessage renders an incoming message. Error replies are marked
// with "!".
func formatMessage(m starsprotocol.Message) string {
	if m.IsError() {
		return "! " + m.WireForm()
	}
	return "< " + m.WireForm()
}

func formatTimeout(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parseSeconds(s string) (float64, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || secs < 0 {
		return 0, fmt.Errorf("invalid number of seconds %q", s)
	}
	return secs, nil
}

// parseSeparator accepts a single character or a separator name.
func parseSeparator(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "space":
		return ' ', nil
	case "comma":
		return ',', nil
	case "tab":
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("separator must be one character or space, comma, tab: %q", s)
	}
	return runes[0], nil
}

// decodeParams converts the parameters of m with the helper for typ and
// formats the result.
func decodeParams(m starsprotocol.Message, sep rune, typ string) (string, error) {
	// GO CONCEPT: The Empty Interface
	// -------------------------------
	// Each case yields a slice of a different element type. Storing it in
	// an "any" variable lets one fmt.Sprintf("%v", v) format all of them;
	// fmt inspects the dynamic type at run time.
	var v any
	switch typ {
	case "string":
		return fmt.Sprintf("%q", m.ParamStrings(sep)), nil
	case "int16":
		v = m.ParamInt16s(sep)
	case "uint16":
		v = m.ParamUint16s(sep)
	case "int32", "int":
		v = m.ParamInt32s(sep)
	case "uint32", "uint":
		v = m.ParamUint32s(sep)
	case "int64", "long":
		v = m.ParamInt64s(sep)
	case "uint64", "ulong":
		v = m.ParamUint64s(sep)
	case "float32", "float":
		v = m.ParamFloat32s(sep)
	case "float64", "double":
		v = m.ParamFloat64s(sep)
	case "bool":
		v = m.ParamBools(sep)
	default:
		return "", fmt.Errorf("unknown type %q", typ)
	}
	return fmt.Sprintf("%v", v), nil
}
