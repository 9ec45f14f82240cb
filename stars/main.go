// =============================================================================
// main.go - STARS Terminal Client Entry Point
// =============================================================================
//
// stars is an interactive terminal client for a STARS server. It logs in as
// a node, then reads lines from the terminal and sends them as STARS frames.
// Incoming frames are shown either on request (.receive) or as they arrive
// once callback mode is switched on (.listen or --callback).
//
// Usage:
//
//	stars                                  Connect as term1 to localhost:6057
//	stars --node dev1 --keyfile dev1.key   Log in as dev1
//	stars --host stars.example.org --callback
//	stars --config ./lab.toml
//	stars --help
//
// Settings come from defaults, ~/.stars.toml, the environment (and ./.env)
// and finally flags; see config.go.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/IMSS-PhotonFactory/StarsInterface2/starsprotocol"
	"github.com/spf13/cobra"
)

// =============================================================================
// Version Information
// =============================================================================

const (
	// version is the current version of the terminal client.
	version = "0.3.0"

	// appName is the application name.
	appName = "stars"

	// copyright is the copyright notice.
	copyright = "Copyright (c) 2026"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s (Go)", appName, version)
}

// welcomeBanner returns the banner displayed when the REPL starts.
func welcomeBanner(node, addr string) string {
	return fmt.Sprintf(`%s - STARS terminal client
%s

Logged in as %s at %s.
Type 'node command' to send, '.help' for help, '.quit' to exit.
`, fullTitle(), copyright, node, addr)
}

// =============================================================================
// Command-Line Flags
// =============================================================================

// GO CONCEPT: Flag Binding
// ------------------------
// cobra binds each flag to a variable with the *Var family of functions.
// Because every flag has a default, the bound value alone cannot tell an
// explicit "--port 6057" from an omitted flag. Flags().Changed(name) can,
// and that is what lets flags override the config file and environment
// only when they were actually given.

// flagValues holds the raw flag values bound by cobra.
type flagValues struct {
	config   string
	node     string
	host     string
	port     int
	keyword  string
	keyfile  string
	timeout  float64
	callback bool
	sendRate float64
	logLevel string
}

// GO CONCEPT: Function Types as Parameters
// ----------------------------------------
// runFunc is a named function type. newRootCommand takes one instead of
// calling run directly, so main passes the real session while tests pass
// a function that only records the resolved settings:
//
//   cmd := newRootCommand(func(s settings, ...) error { got = s; return nil })
//
// Any function with a matching signature satisfies the type; no interface
// or adapter struct is needed.
// runFunc is what the root command does with the resolved settings.
type runFunc func(s settings, in io.Reader, out, errOut io.Writer) error

// newRootCommand builds the root command. run is called with the
// resolved settings.
func newRootCommand(run runFunc) *cobra.Command {
	var fv flagValues

	cmd := &cobra.Command{
		Use:   "stars [flags]",
		Short: "stars - interactive STARS client",
		Long: `stars connects to a STARS server as a node and lets you exchange
messages with other nodes from the terminal.

Input forms at the prompt:
  node command params...        send to node (the server fills in the sender)
  from>to command params...     send a fully addressed message
  !raw text                     send a line exactly as typed

Type .help at the prompt for the dot-commands.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd, &fv)
			if err != nil {
				return err
			}
			return run(s, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	def := defaultSettings()
	f := cmd.Flags()
	f.StringVar(&fv.config, "config", "", "config file (default ~/"+configFileName+")")
	f.StringVarP(&fv.node, "node", "n", def.Node, "node name to log in as")
	f.StringVarP(&fv.host, "host", "H", def.Host, "STARS server host")
	f.IntVarP(&fv.port, "port", "p", def.Port, "STARS server port")
	f.StringVarP(&fv.keyword, "keyword", "k", "", "inline keyword list, space separated")
	f.StringVar(&fv.keyfile, "keyfile", "", "keyword file (default <node>.key)")
	f.Float64VarP(&fv.timeout, "timeout", "t", def.Timeout.Seconds(), "receive timeout in seconds, 0 waits forever")
	f.BoolVarP(&fv.callback, "callback", "c", false, "print incoming messages as they arrive")
	f.Float64Var(&fv.sendRate, "send-rate", 0, "maximum frames per second, 0 is unlimited")
	f.StringVar(&fv.logLevel, "log-level", def.LogLevel, "log level (trace, debug, info, warn, error, off)")

	return cmd
}

// GO CONCEPT: Layered Configuration
// ---------------------------------
// Each layer writes only the fields it actually defines onto the same
// settings value, in order of increasing priority:
//
//   defaults -> ~/.stars.toml -> .env -> STARS_* variables -> flags
//
// Passing *settings to every layer keeps them independent: a layer never
// needs to know which layers ran before it.
// resolveSettings layers defaults, config file, environment and flags.
func resolveSettings(cmd *cobra.Command, fv *flagValues) (settings, error) {
	s := defaultSettings()

	path, required := defaultConfigPath(), false
	if cmd.Flags().Changed("config") {
		path, required = fv.config, true
	}
	if err := loadFileSettings(path, required, &s); err != nil {
		return settings{}, err
	}

	if err := loadDotEnv(envFileName); err != nil {
		return settings{}, err
	}
	if err := applyEnv(&s, os.LookupEnv); err != nil {
		return settings{}, err
	}

	applyFlags(cmd, fv, &s)

	if err := s.validate(); err != nil {
		return settings{}, err
	}
	return s, nil
}

func applyFlags(cmd *cobra.Command, fv *flagValues, s *settings) {
	f := cmd.Flags()
	if f.Changed("node") {
		s.Node = fv.node
	}
	if f.Changed("host") {
		s.Host = fv.host
	}
	if f.Changed("port") {
		s.Port = fv.port
	}
	if f.Changed("keyword") {
		s.Keyword = fv.keyword
	}
	if f.Changed("keyfile") {
		s.KeyFile = expandHome(fv.keyfile)
	}
	if f.Changed("timeout") {
		s.Timeout = starsprotocol.TimeoutFromSeconds(fv.timeout)
	}
	if f.Changed("callback") {
		s.Callback = fv.callback
	}
	if f.Changed("send-rate") {
		s.SendRate = fv.sendRate
	}
	if f.Changed("log-level") {
		s.LogLevel = fv.logLevel
	}
}

// =============================================================================
// Signal Handling
// =============================================================================

// GO CONCEPT: Signal Channels
// ---------------------------
// signal.Notify delivers OS signals on a channel instead of interrupting
// the program. The channel needs a buffer of at least one: the runtime
// does not block when sending, so an unbuffered channel could miss a
// signal that arrives before the goroutine is receiving.
// setupSignalHandler runs cleanup and exits on SIGINT or SIGTERM. In an
// interactive terminal the line editor handles Ctrl-C itself, so this
// mostly matters when input is piped.
func setupSignalHandler(cleanup func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println()
		cleanup()
		os.Exit(0)
	}()
}

// =============================================================================
// Main
// =============================================================================

// run connects with s and drives the REPL until .quit or end of input.
func run(s settings, in io.Reader, out, errOut io.Writer) error {
	logger := newLogger(s.logConfig(), errOut)

	cfg := s.clientConfig(&logger)
	client := starsprotocol.NewClient(cfg)
	client.SetDefaultTimeout(s.Timeout)

	fmt.Fprintf(out, "Connecting to %s as %s...\n", cfg.Address(), s.Node)
	if err := client.Connect(false); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer client.Close()
	// GO CONCEPT: defer Runs in Reverse Order
	// ---------------------------------------
	// Deferred calls run when run returns, last one first. The editor is
	// closed before the client, and both run even if the REPL panics.

	setupSignalHandler(client.Disconnect)

	fmt.Fprint(out, welcomeBanner(s.Node, cfg.Address()))
	fmt.Fprintln(out)

	editor := NewLineEditor(in, out)
	defer editor.Close()

	r := newREPL(client, editor)
	if s.Callback {
		r.listen()
	}
	r.run()
	return nil
}

func main() {
	if err := newRootCommand(run).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
