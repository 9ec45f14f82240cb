// =============================================================================
// help.go - Help System
// =============================================================================
//
// .help without a topic prints an overview of the input forms and
// dot-commands; .help <topic> prints the detailed text for one topic.
// Topics are case-insensitive and may be given with or without the
// leading dot.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const helpOverview = `Sending:
  node command params...        Send to node; the server fills in the sender
  from>to command params...     Send a fully addressed message
  !raw text                     Send a line exactly as typed

Commands:
  .help [topic]                 Show help (or help for a specific topic)
  .receive [seconds]            Wait for one message
  .listen                       Print incoming messages as they arrive
  .status                       Show connection state and counters
  .timeout [seconds]            Show or set the receive timeout
  .params <sep> <type>          Decode the parameters of the last message
  .quit                         Disconnect and exit

Topics: send, raw, messages, ` + "help, receive, listen, status, timeout, params, quit\n"

// helpTopics maps a topic name to its detailed help.
var helpTopics = map[string]string{
	"help": `.help [topic]
    Without a topic, list the input forms and commands. With a topic,
    show details for it, e.g. ".help params".`,

	"send": `node command params...
    Sends "node command params..." to the server, which delivers it to
    node with this client as the sender. Example:

      term2 flushdatatome

from>to command params...
    Sends a message with an explicit sender. The sender must normally be
    this client's own node name or a sub-node of it. Example:

      term1.sub>dev1 SetValue 10`,

	"raw": `!raw text
    Sends everything after the "!" as one line, without checking it.
    Useful for server commands that do not follow the node command form.`,

	"messages": `Incoming messages are printed as "< from>to command params".
    A command starting with "@" is a reply to a request, one starting
    with "_" is an event. Replies ending in "Ok:" acknowledge a request;
    replies carrying "Er:" report an error and are marked with "!".`,

	"receive": `.receive [seconds]
    Waits for the next message and prints it. Without an argument the
    current timeout is used (see .timeout); 0 waits forever. Not
    available once .listen is active.`,

	"listen": `.listen
    Switches to callback mode: every message is printed as soon as it
    arrives, while you keep typing. This cannot be undone for the
    current connection; .receive stops working.`,

	"status": `.status
    Shows whether the client is connected and listening, the server
    address, the time of login, frame counters and the receive timeout.`,

	"timeout": `.timeout [seconds]
    Without an argument, shows the receive timeout. With one, sets it.
    Fractions are allowed and truncated to milliseconds; 0 waits forever.`,

	"params": `.params <sep> <type>
    Splits the parameters of the last received message on sep and
    converts every element to type. sep is a single character or one of
    space, comma, tab. type is one of string, int16, uint16, int32,
    uint32, int64, uint64, float32, float64, bool. If any element fails
    to convert the result is empty. Example:

      .params comma float64`,

	"quit": `.quit
    Disconnects from the server and exits. Ctrl-D does the same.`,
}

// GO CONCEPT: Map Iteration Order
// -------------------------------
// Ranging over a map visits keys in an unspecified order that changes
// between runs. Anything shown to the user or compared in a test is
// collected into a slice and sorted first.
// helpTopicNames returns the topic names in sorted order.
func helpTopicNames() []string {
	names := make([]string, 0, len(helpTopics))
	for name := range helpTopics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// printHelp writes the overview, or the help for topic, to out.
func printHelp(out io.Writer, topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		fmt.Fprint(out, helpOverview)
		return
	}

	key := strings.TrimPrefix(strings.ToLower(topic), ".")
	if text, ok := helpTopics[key]; ok {
		fmt.Fprintln(out, text)
		return
	}

	fmt.Fprintf(out, "Error: No help for '%s'. Type .help to see available topics.\n", topic)
}
