package starsprotocol

import (
	"testing"
	"time"
)

// TestProtocolConstants verifies the values fixed by the wire protocol.
func TestProtocolConstants(t *testing.T) {
	if DefaultPort != 6057 {
		t.Errorf("DefaultPort = %d, want 6057", DefaultPort)
	}
	if FrameTerminator != '\n' {
		t.Errorf("FrameTerminator = %q, want '\\n'", FrameTerminator)
	}
	if AddressSeparator != '>' {
		t.Errorf("AddressSeparator = %q, want '>'", AddressSeparator)
	}
	if AcceptedCommand != "Ok:" {
		t.Errorf("AcceptedCommand = %q, want \"Ok:\"", AcceptedCommand)
	}
	if DefaultTimeout != 30*time.Second {
		t.Errorf("DefaultTimeout = %v, want 30s", DefaultTimeout)
	}
}

func TestTimeoutFromSeconds(t *testing.T) {
	tests := []struct {
		seconds float64
		want    time.Duration
	}{
		{0, 0},
		{1, time.Second},
		{0.1, 100 * time.Millisecond},
		{2.5, 2500 * time.Millisecond},
		{0.0015, time.Millisecond},
		{0.0009, 0},
	}

	for _, tt := range tests {
		if got := TimeoutFromSeconds(tt.seconds); got != tt.want {
			t.Errorf("TimeoutFromSeconds(%v) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestDefaultKeywordFile(t *testing.T) {
	if got := DefaultKeywordFile("term1"); got != "term1.key" {
		t.Errorf("got %q, want %q", got, "term1.key")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("term1", "stars.example.org")

	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.KeywordFile != "term1.key" {
		t.Errorf("KeywordFile = %q", cfg.KeywordFile)
	}
	if cfg.Address() != "stars.example.org:6057" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.limiter() != nil {
		t.Error("limiter should be nil without a send rate")
	}

	v6 := DefaultConfig("term1", "::1")
	if v6.Address() != "[::1]:6057" {
		t.Errorf("Address() = %q", v6.Address())
	}
}
