// Package starsprotocol provides a Go client for the STARS text protocol.
//
// # Protocol Overview
//
// STARS is a line-oriented protocol. A node opens one TCP connection to a
// STARS server (port 6057 by default) and exchanges newline-terminated
// frames:
//
//	<from>><to> <command> <parameters...>\n
//
// Before any frame is accepted the node logs in: the server sends a
// decimal challenge number, the node answers "<node> <keyword>" where the
// keyword is chosen from a shared list by challenge mod list length, and
// the server replies with the command "Ok:" on success.
//
// # Basic Usage
//
// Create a client, connect, and exchange messages:
//
//	cfg := starsprotocol.DefaultConfig("term1", "127.0.0.1")
//	cfg.Keyword = "stars"
//
//	client := starsprotocol.NewClient(cfg)
//	if err := client.Connect(false); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.SendTo("term2", "flushdatatome"); err != nil {
//	    log.Fatal(err)
//	}
//	msg, err := client.Receive()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(msg.From, msg.CombinedCommand())
//
// # Callback Mode
//
// Instead of polling with Receive, a client can hand its socket to a
// background goroutine which pushes every decoded message to subscribers:
//
//	client.Subscribe(func(m starsprotocol.Message) {
//	    fmt.Println(m.WireForm())
//	})
//	client.EnableCallbackMode()
//
// The hand-over is permanent for the connection. When the connection
// breaks the goroutine stops silently; check IsConnected to notice.
//
// # Errors
//
// Failures are reported as *ConfigError, *ConnectionError, *ProtocolError,
// *TimeoutError, *ReceiveError or *TransmitError, each wrapping its cause.
// Nothing is retried.
//
// # Thread Safety
//
// Send may be used from several goroutines at once. Receive calls are
// serialised, and callback mode excludes Receive entirely.
package starsprotocol
