package starsprotocol

import "testing"

func TestMessageKind(t *testing.T) {
	tests := []struct {
		line string
		kind Kind
		name string
	}{
		{"term1>dev GetValue", KindRequest, "GetValue"},
		{"dev>term1 @GetValue 42", KindReply, "GetValue"},
		{"dev>term1 _ChangedValue 5", KindEvent, "ChangedValue"},
		{"System>term1 Ok:", KindRequest, "Ok:"},
	}

	for _, tt := range tests {
		m := ParseMessage(tt.line)
		if got := m.Kind(); got != tt.kind {
			t.Errorf("%q: Kind() = %v, want %v", tt.line, got, tt.kind)
		}
		if got := m.Name(); got != tt.name {
			t.Errorf("%q: Name() = %q, want %q", tt.line, got, tt.name)
		}
	}
}

func TestReplyStatus(t *testing.T) {
	tests := []struct {
		line    string
		ok      bool
		isError bool
		errText string
	}{
		{"System>term1 Ok:", true, false, ""},
		{"dev>term1 @flushdatatome Ok:", true, false, ""},
		{"dev>term1 @GetValue 42", false, false, ""},
		{"dev>term1 @SetValue Er: out of range", false, true, "out of range"},
		{"System>term1 Er: Bad node name", false, true, "Bad node name"},
		{"term1>dev SetValue Er:", false, false, ""},
	}

	for _, tt := range tests {
		m := ParseMessage(tt.line)
		if m.IsOK() != tt.ok {
			t.Errorf("%q: IsOK() = %v, want %v", tt.line, m.IsOK(), tt.ok)
		}
		if m.IsError() != tt.isError {
			t.Errorf("%q: IsError() = %v, want %v", tt.line, m.IsError(), tt.isError)
		}
		if m.ErrorText() != tt.errText {
			t.Errorf("%q: ErrorText() = %q, want %q", tt.line, m.ErrorText(), tt.errText)
		}
	}
}

func TestNewReply(t *testing.T) {
	req := ParseMessage("term1>dev GetValue")

	if got := NewReply(req, "42").WireForm(); got != "dev>term1 @GetValue 42" {
		t.Errorf("NewReply = %q", got)
	}
	if got := NewOKReply(req).WireForm(); got != "dev>term1 @GetValue Ok:" {
		t.Errorf("NewOKReply = %q", got)
	}
	if got := NewErrorReply(req, "busy").WireForm(); got != "dev>term1 @GetValue Er: busy" {
		t.Errorf("NewErrorReply = %q", got)
	}

	// Replying to a reply does not stack prefixes.
	if got := NewReply(NewReply(req, "42"), "x").Command; got != "@GetValue" {
		t.Errorf("reply of reply command = %q", got)
	}
}

func TestNewEvent(t *testing.T) {
	m := NewEvent("dev", "System", "ChangedValue", "5")
	if m.WireForm() != "dev>System _ChangedValue 5" {
		t.Errorf("got %q", m.WireForm())
	}
	if NewEvent("dev", "System", "_ChangedValue", "5") != m {
		t.Error("existing prefix should not be doubled")
	}
}
