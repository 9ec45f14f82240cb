package starsprotocol

import (
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Config holds everything a Client needs to reach and log in to a server.
type Config struct {
	// NodeName is the identity this client logs in as.
	NodeName string

	// Host and Port locate the STARS server.
	Host string
	Port int

	// Keyword is an inline, space separated keyword list. When non-empty
	// it wins over KeywordFile, which is then never read.
	Keyword string

	// KeywordFile is a file with one keyword per line.
	KeywordFile string

	// DefaultTimeout bounds Receive and each handshake step. It is
	// truncated to whole milliseconds.
	DefaultTimeout time.Duration

	// DialTimeout bounds establishing the TCP connection.
	DialTimeout time.Duration

	// SendRate limits outgoing frames per second; zero means unlimited.
	SendRate float64

	// SendBurst is the number of frames allowed above SendRate at once.
	SendBurst int

	// MaxFrameLength caps an unterminated incoming frame. Zero selects
	// DefaultMaxFrameLength; a negative value disables the cap.
	MaxFrameLength int

	// Logger receives connection lifecycle events. Nil disables logging.
	Logger *zerolog.Logger
}

// DefaultConfig returns a Config for nodeName on host with the standard
// port, timeouts and keyword file.
func DefaultConfig(nodeName, host string) Config {
	return Config{
		NodeName:       nodeName,
		Host:           host,
		Port:           DefaultPort,
		KeywordFile:    DefaultKeywordFile(nodeName),
		DefaultTimeout: DefaultTimeout,
		DialTimeout:    DialTimeout,
	}
}

// Address returns host:port.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig(c.NodeName, c.Host)
	if c.Port == 0 {
		c.Port = def.Port
	}
	if c.KeywordFile == "" {
		c.KeywordFile = def.KeywordFile
	}
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = def.DefaultTimeout
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = def.DialTimeout
	}
	if c.MaxFrameLength == 0 {
		c.MaxFrameLength = DefaultMaxFrameLength
	}
	c.DefaultTimeout = c.DefaultTimeout.Truncate(time.Millisecond)
	return c
}

func (c Config) limiter() *rate.Limiter {
	if c.SendRate <= 0 {
		return nil
	}
	burst := c.SendBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(c.SendRate), burst)
}

func (c Config) logger() zerolog.Logger {
	if c.Logger == nil {
		return zerolog.Nop()
	}
	return *c.Logger
}
