package starsprotocol

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// mockServer is a minimal STARS server listening on a loopback TCP port.
//
// Every accepted connection is handed to session, which scripts the
// server side of the conversation.
type mockServer struct {
	listener net.Listener
	session  func(conn net.Conn, r *bufio.Reader)

	// logins receives the login line sent by each client.
	logins chan string

	// lines receives every line read by readLines.
	lines chan string

	mu          sync.Mutex
	connections []net.Conn
	wg          sync.WaitGroup
}

// startMockServer starts a server running session for every connection.
// It is stopped when the test finishes.
func startMockServer(t *testing.T, session func(ms *mockServer, conn net.Conn, r *bufio.Reader)) *mockServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "failed to listen")

	ms := &mockServer{
		listener: listener,
		logins:   make(chan string, 16),
		lines:    make(chan string, 1024),
	}
	ms.session = func(conn net.Conn, r *bufio.Reader) { session(ms, conn, r) }

	ms.wg.Add(1)
	go ms.acceptLoop()

	t.Cleanup(ms.stop)
	return ms
}

func (ms *mockServer) acceptLoop() {
	defer ms.wg.Done()

	for {
		conn, err := ms.listener.Accept()
		if err != nil {
			return
		}

		ms.mu.Lock()
		ms.connections = append(ms.connections, conn)
		ms.mu.Unlock()

		ms.wg.Add(1)
		go func() {
			defer ms.wg.Done()
			defer conn.Close()
			ms.session(conn, bufio.NewReader(conn))
		}()
	}
}

func (ms *mockServer) stop() {
	ms.listener.Close()

	ms.mu.Lock()
	for _, conn := range ms.connections {
		conn.Close()
	}
	ms.connections = nil
	ms.mu.Unlock()

	ms.wg.Wait()
}

func (ms *mockServer) port() int {
	return ms.listener.Addr().(*net.TCPAddr).Port
}

// login plays the server side of the handshake: it sends challenge, reads
// the login line and answers with reply. It returns false if the client
// went away.
func (ms *mockServer) login(conn net.Conn, r *bufio.Reader, challenge, reply string) bool {
	fmt.Fprintf(conn, "%s\n", challenge)
	line, err := r.ReadString('\n')
	if err != nil {
		return false
	}
	ms.logins <- strings.TrimRight(line, "\r\n")
	fmt.Fprint(conn, reply)
	return true
}

// readLines forwards every line the client sends to ms.lines until the
// connection closes.
func (ms *mockServer) readLines(r *bufio.Reader) {
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		ms.lines <- strings.TrimRight(line, "\n")
	}
}

// acceptAll logs every client in with challenge 7 and then collects its
// lines.
func acceptAll(ms *mockServer, conn net.Conn, r *bufio.Reader) {
	if ms.login(conn, r, "7", "System>term1 Ok:\n") {
		ms.readLines(r)
	}
}

// nextLine waits for the next line the server received.
func (ms *mockServer) nextLine(t *testing.T) string {
	t.Helper()
	select {
	case line := <-ms.lines:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for line at server")
		return ""
	}
}

// nextLogin waits for the next login line the server received.
func (ms *mockServer) nextLogin(t *testing.T) string {
	t.Helper()
	select {
	case line := <-ms.logins:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for login at server")
		return ""
	}
}

// testConfig returns a config pointing at ms with the keywords k0 k1 k2.
func testConfig(ms *mockServer) Config {
	cfg := DefaultConfig("term1", "127.0.0.1")
	cfg.Port = ms.port()
	cfg.Keyword = "k0 k1 k2"
	cfg.DefaultTimeout = 2 * time.Second
	return cfg
}

// newTestClient creates a client for ms that is closed when the test ends.
func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	client := NewClient(cfg)
	t.Cleanup(client.Disconnect)
	return client
}
