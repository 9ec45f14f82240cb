// =============================================================================
// help_test.go - Tests for the Help System (help.go)
// =============================================================================

package main

import (
	"bytes"
	"strings"
	"testing"
)

func helpOutput(topic string) string {
	var buf bytes.Buffer
	printHelp(&buf, topic)
	return buf.String()
}

func TestHelpOverviewListsCommands(t *testing.T) {
	output := helpOutput("")
	for _, cmd := range []string{".help", ".receive", ".listen", ".status", ".timeout", ".params", ".quit", "!raw", "from>to"} {
		if !strings.Contains(output, cmd) {
			t.Errorf("overview should mention %s", cmd)
		}
	}
}

// Every topic named in the overview must have a help entry.
func TestHelpOverviewTopicsExist(t *testing.T) {
	_, list, ok := strings.Cut(helpOverview, "Topics: ")
	if !ok {
		t.Fatal("overview has no topic list")
	}
	for _, name := range strings.Split(strings.TrimSpace(list), ", ") {
		if _, ok := helpTopics[name]; !ok {
			t.Errorf("topic %q listed but not defined", name)
		}
	}
}

func TestHelpTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"receive", ".receive [seconds]"},
		{".receive", ".receive [seconds]"},
		{"PARAMS", ".params <sep> <type>"},
		{"send", "from>to command params"},
		{"messages", "Er:"},
	}

	for _, tc := range tests {
		t.Run(tc.topic, func(t *testing.T) {
			if output := helpOutput(tc.topic); !strings.Contains(output, tc.want) {
				t.Errorf("help %q should contain %q, got:\n%s", tc.topic, tc.want, output)
			}
		})
	}
}

func TestHelpTopicUnknown(t *testing.T) {
	output := helpOutput("warp")
	if !strings.Contains(output, "No help for 'warp'") {
		t.Errorf("unexpected output %q", output)
	}
}

func TestHelpTopicNamesSorted(t *testing.T) {
	names := helpTopicNames()
	if len(names) != len(helpTopics) {
		t.Fatalf("got %d names, want %d", len(names), len(helpTopics))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}
