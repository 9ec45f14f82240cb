package starsprotocol

import "strings"

// Kind classifies a message by the prefix of its command.
type Kind int

const (
	// KindRequest is an ordinary command addressed to a node.
	KindRequest Kind = iota
	// KindReply answers a request; its command is "@" plus the request name.
	KindReply
	// KindEvent is an unsolicited notification; its command starts with "_".
	KindEvent
)

// Command prefixes and reply markers.
const (
	ReplyPrefix = "@"
	EventPrefix = "_"
	ErrorMarker = "Er:"
)

func (k Kind) String() string {
	switch k {
	case KindReply:
		return "reply"
	case KindEvent:
		return "event"
	default:
		return "request"
	}
}

// Kind returns the kind of m.
func (m Message) Kind() Kind {
	switch {
	case strings.HasPrefix(m.Command, ReplyPrefix):
		return KindReply
	case strings.HasPrefix(m.Command, EventPrefix):
		return KindEvent
	default:
		return KindRequest
	}
}

// Name returns the command without its reply or event prefix.
func (m Message) Name() string {
	switch m.Kind() {
	case KindReply:
		return strings.TrimPrefix(m.Command, ReplyPrefix)
	case KindEvent:
		return strings.TrimPrefix(m.Command, EventPrefix)
	default:
		return m.Command
	}
}

// IsOK reports whether m is a positive acknowledgement: either the login
// reply or a reply whose parameters are exactly "Ok:".
func (m Message) IsOK() bool {
	if m.Command == AcceptedCommand {
		return true
	}
	return m.Kind() == KindReply && m.Parameters == AcceptedCommand
}

// IsError reports whether m is an error reply ("@cmd Er: text" or
// "Er: text").
func (m Message) IsError() bool {
	if m.Command == ErrorMarker {
		return true
	}
	return m.Kind() == KindReply && strings.HasPrefix(m.Parameters, ErrorMarker)
}

// ErrorText returns the text following "Er:" in an error reply.
func (m Message) ErrorText() string {
	if !m.IsError() {
		return ""
	}
	if m.Command == ErrorMarker {
		return m.Parameters
	}
	return strings.TrimSpace(strings.TrimPrefix(m.Parameters, ErrorMarker))
}

// NewReply builds the reply to req carrying params. Sender and receiver are
// swapped and the command becomes "@" plus the request name.
func NewReply(req Message, params string) Message {
	return Message{
		From:       req.To,
		To:         req.From,
		Command:    ReplyPrefix + req.Name(),
		Parameters: params,
	}
}

// NewOKReply builds the "Ok:" acknowledgement of req.
func NewOKReply(req Message) Message {
	return NewReply(req, AcceptedCommand)
}

// NewErrorReply builds an error reply to req.
func NewErrorReply(req Message, text string) Message {
	if text == "" {
		return NewReply(req, ErrorMarker)
	}
	return NewReply(req, ErrorMarker+" "+text)
}

// NewEvent builds an event named name sent by from to to.
func NewEvent(from, to, name, params string) Message {
	return Message{
		From:       from,
		To:         to,
		Command:    EventPrefix + strings.TrimPrefix(name, EventPrefix),
		Parameters: params,
	}
}
