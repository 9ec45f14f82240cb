// Package starsprotocol implements the STARS text protocol used by nodes
// talking to a STARS server over a single TCP connection.
//
// Protocol Format:
//
//	Frame:                <from>><to> <command> <parameters...>\n
//	Challenge (S -> C):   <number>\n
//	Login (C -> S):       <node> <keyword>\n
//	Accepted (S -> C):    <server>><node> Ok:\n
//
// Example Session:
//
//	SRV: 4711
//	CLI: term1 stars
//	SRV: System>term1 Ok:
//	CLI: term1>term2 flushdatatome
//	SRV: term2>term1 @flushdatatome Ok:
package starsprotocol

import "time"

// Protocol constants.
const (
	// DefaultPort is the TCP port a STARS server listens on.
	DefaultPort = 6057

	// FrameTerminator ends every frame on the wire.
	FrameTerminator = '\n'

	// AddressSeparator separates the sender from the receiver.
	AddressSeparator = '>'

	// FieldSeparator separates receiver, command and parameters.
	FieldSeparator = ' '

	// AcceptedCommand is the command the server answers a valid login with.
	AcceptedCommand = "Ok:"

	// KeywordFileSuffix is appended to the node name to build the default
	// keyword file path.
	KeywordFileSuffix = ".key"

	// ReadBufferSize is the size of a single socket read.
	ReadBufferSize = 1024

	// DefaultMaxFrameLength is the largest unterminated frame a client
	// accumulates before giving up on the stream, unless
	// Config.MaxFrameLength says otherwise.
	DefaultMaxFrameLength = 16 << 20

	// DefaultTimeout is the default timeout for a synchronous receive.
	DefaultTimeout = 30 * time.Second

	// DialTimeout is the default timeout for establishing the TCP connection.
	DialTimeout = 10 * time.Second
)

// TimeoutFromSeconds converts a fractional number of seconds, as found in
// configuration files, into a duration truncated to whole milliseconds.
func TimeoutFromSeconds(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second)).Truncate(time.Millisecond)
}

// DefaultKeywordFile returns the keyword file used when none is configured.
func DefaultKeywordFile(nodeName string) string {
	return nodeName + KeywordFileSuffix
}
