// =============================================================================
// lineeditor.go - Line Editing and History
// =============================================================================
//
// LineEditor reads one line of input per prompt. On an interactive
// terminal it uses readline: cursor movement, Emacs-style editing keys,
// tab completion of dot-commands and a persistent history in
// ~/.stars_history. When input is piped, or the client runs inside an
// Emacs shell buffer, it falls back to a plain bufio.Scanner so the prompt
// and input stay line oriented.
//
// Output written while the user is typing (messages arriving in callback
// mode) must go through Writer so the prompt is redrawn after it.
//
// =============================================================================

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is stored in the user's home directory.
	historyFileName = ".stars_history"

	// historySize is the maximum number of history entries kept.
	historySize = 500
)

// LineEditor provides line input with optional editing and history.
type LineEditor struct {
	interactive bool

	rl *readline.Instance

	scanner *bufio.Scanner
	out     io.Writer
	mu      sync.Mutex
}

// GO CONCEPT: Type Assertions on Interfaces
// -----------------------------------------
// in.(*os.File) asks whether the io.Reader actually holds an *os.File.
// The two-value form never panics: isFile is false for a pipe wrapper, a
// strings.Reader or a test buffer, and only then is the terminal check
// skipped.
// NewLineEditor returns an interactive editor when in is a terminal, and a
// scanner-based one otherwise.
func NewLineEditor(in io.Reader, out io.Writer) *LineEditor {
	f, isFile := in.(*os.File)
	interactive := isFile &&
		term.IsTerminal(int(f.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !interactive {
		return newScannerEditor(in, out)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath(),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		AutoComplete:           dotCompleter(),
		Prompt:                 "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newScannerEditor(in, out)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
		out:         out,
	}
}

func newScannerEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// historyPath returns the history file location. Without a home directory
// the file is kept in the working directory.
func historyPath() string {
	return filepath.Join(homeDir(), historyFileName)
}

// GO CONCEPT: Variadic Functions
// ------------------------------
// PcItem(name, children...) takes any number of child completers. A slice
// built at run time is passed with the "..." suffix, as done for the help
// topics below.
// dotCompleter completes the REPL's dot-commands and help topics.
func dotCompleter() *readline.PrefixCompleter {
	topics := make([]*readline.PrefixCompleter, 0, len(helpTopics))
	for _, name := range helpTopicNames() {
		topics = append(topics, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".help", topics...),
		readline.PcItem(".quit"),
		readline.PcItem(".receive"),
		readline.PcItem(".listen"),
		readline.PcItem(".status"),
		readline.PcItem(".timeout"),
		readline.PcItem(".params",
			readline.PcItem("space"),
			readline.PcItem("comma"),
			readline.PcItem("tab"),
		),
	)
}

// GetLine shows prompt and returns the next line. io.EOF means the user
// pressed Ctrl-D or Ctrl-C, or the input ended.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	le.mu.Lock()
	fmt.Fprint(le.out, prompt)
	le.mu.Unlock()

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Writer returns the writer for output. It may be used from any goroutine.
func (le *LineEditor) Writer() io.Writer {
	if le.interactive {
		return le.rl
	}
	return lockedWriter{mu: &le.mu, w: le.out}
}

// Close releases the terminal. It is safe to call more than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether readline is in use.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}

// GO CONCEPT: Sharing a Mutex by Pointer
// --------------------------------------
// lockedWriter is a value type but holds *sync.Mutex, so every copy
// returned by Writer() locks the same mutex. Copying a sync.Mutex itself
// would give each copy its own lock and serialise nothing.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (lw lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
