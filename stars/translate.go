// =============================================================================
// translate.go - Input Translation
// =============================================================================
//
// Turns a line typed at the prompt into one of the client's send
// operations:
//
//	term2 flushdatatome          -> SendTo("term2", "flushdatatome")
//	term1>term2 GetValue         -> SendMessage(Message{...})
//	!System listnodes            -> SendRaw("System listnodes")
//
// Dot-commands are handled by the REPL before translation.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/IMSS-PhotonFactory/StarsInterface2/starsprotocol"
)

// GO CONCEPT: iota Enumerations with a String Method
// --------------------------------------------------
// iota numbers the constants of one const block from zero. Giving the
// type a String method makes it satisfy fmt.Stringer, so %v prints "raw"
// instead of 2 in test failures and log lines.
// sendKind selects the client send operation.
type sendKind int

const (
	sendTo sendKind = iota
	sendMessage
	sendRaw
)

func (k sendKind) String() string {
	switch k {
	case sendTo:
		return "to"
	case sendMessage:
		return "message"
	case sendRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// outgoing is a translated input line.
type outgoing struct {
	kind    sendKind
	to      string
	command string
	msg     starsprotocol.Message
	raw     string
}

// rawPrefix marks a line to be sent unchanged.
const rawPrefix = "!"

var (
	errEmptyInput     = errors.New("nothing to send")
	errMissingCommand = errors.New("missing command: type 'node command'")
)

// translateInput parses one line of user input.
func translateInput(line string) (outgoing, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return outgoing{}, errEmptyInput
	}

	if strings.HasPrefix(trimmed, rawPrefix) {
		raw := strings.TrimSpace(strings.TrimPrefix(trimmed, rawPrefix))
		if raw == "" {
			return outgoing{}, errEmptyInput
		}
		return outgoing{kind: sendRaw, raw: raw}, nil
	}

	// GO CONCEPT: Blank Identifier
	// -----------------------------
	// Cut returns three values. The "found" flag is not needed here, since
	// an empty rest is handled below, so it is discarded with _.
	head, rest, _ := strings.Cut(trimmed, " ")
	if strings.ContainsRune(head, starsprotocol.AddressSeparator) || strings.HasPrefix(strings.TrimSpace(rest), string(starsprotocol.AddressSeparator)) {
		return translateAddressed(trimmed)
	}

	command := strings.TrimSpace(rest)
	if command == "" {
		return outgoing{}, errMissingCommand
	}
	return outgoing{kind: sendTo, to: head, command: command}, nil
}

func translateAddressed(line string) (outgoing, error) {
	m := starsprotocol.ParseMessage(line)
	switch {
	case m.From == "":
		return outgoing{}, errors.New("missing sender before '>'")
	case m.To == "":
		return outgoing{}, errors.New("missing receiver after '>'")
	case m.Command == "":
		return outgoing{}, errMissingCommand
	}
	if err := m.Validate(); err != nil {
		return outgoing{}, fmt.Errorf("cannot send: %w", err)
	}
	return outgoing{kind: sendMessage, msg: m}, nil
}

// GO CONCEPT: Consumer-Side Interfaces
// ------------------------------------
// sender is declared here, where it is used, not in starsprotocol. The
// client satisfies it implicitly because it has the three methods; tests
// pass a recorder with the same methods and no network at all.
// sender is the part of *starsprotocol.Client used to send.
type sender interface {
	SendTo(to, command string) error
	SendMessage(m starsprotocol.Message) error
	SendRaw(line string) error
}

// send performs o on c.
func (o outgoing) send(c sender) error {
	switch o.kind {
	case sendTo:
		return c.SendTo(o.to, o.command)
	case sendMessage:
		return c.SendMessage(o.msg)
	case sendRaw:
		return c.SendRaw(o.raw)
	default:
		return fmt.Errorf("unknown send kind %d", o.kind)
	}
}

// String returns the line that o puts on the wire.
func (o outgoing) String() string {
	switch o.kind {
	case sendTo:
		return o.to + " " + o.command
	case sendMessage:
		return o.msg.WireForm()
	default:
		return o.raw
	}
}
