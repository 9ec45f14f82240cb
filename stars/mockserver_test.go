// =============================================================================
// mockserver_test.go - Mock STARS Server for Testing
// =============================================================================
//
// A STARS server on a loopback TCP port that logs every client in with
// challenge 7 and then answers each received line through a handler. The
// REPL tests connect a real starsprotocol.Client to it.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/IMSS-PhotonFactory/StarsInterface2/starsprotocol"
)

// testKeywords is the keyword list shared by the mock server and clients.
const testKeywords = "k0 k1 k2"

// mockServer answers every line a client sends with the lines returned by
// handler, each terminated by a newline.
type mockServer struct {
	listener net.Listener
	handler  func(line string) []string

	// received collects every line after the login.
	received chan string

	mu          sync.Mutex
	connections []net.Conn
	wg          sync.WaitGroup
}

func startMockServer(t *testing.T, handler func(line string) []string) *mockServer {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	// GO CONCEPT: Port Zero
	// ---------------------
	// Listening on port 0 lets the kernel pick a free port, so tests never
	// collide with each other or a real server. port() reads the chosen
	// port back from listener.Addr().
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ms := &mockServer{
		listener: listener,
		handler:  handler,
		received: make(chan string, 256),
	}

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
		go ms.handleConnection(conn)
	}
}

func (ms *mockServer) handleConnection(conn net.Conn) {
	defer ms.wg.Done()
	defer conn.Close()

	r := bufio.NewReader(conn)
	fmt.Fprint(conn, "7\n")
	login, err := r.ReadString('\n')
	if err != nil {
		return
	}
	node, _, _ := strings.Cut(strings.TrimSpace(login), " ")
	fmt.Fprintf(conn, "System>%s Ok:\n", node)

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		select {
		case ms.received <- line:
		default:
		}
		if ms.handler == nil {
			continue
		}
		for _, reply := range ms.handler(line) {
			fmt.Fprint(conn, reply+"\n")
		}
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

// nextReceived waits for the next line the server received.
func (ms *mockServer) nextReceived(t *testing.T) string {
	t.Helper()
	select {
	case line := <-ms.received:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for line at server")
		return ""
	}
}

// echoHandler answers "to cmd params" with "to>term1 @cmd params", as if
// node to had replied.
func echoHandler(line string) []string {
	to, rest, ok := strings.Cut(line, " ")
	if !ok {
		return nil
	}
	if i := strings.IndexByte(to, '>'); i >= 0 {
		to = to[i+1:]
	}
	return []string{to + ">term1 @" + rest}
}

// testSettings returns settings for a client of ms.
func testSettings(ms *mockServer) settings {
	s := defaultSettings()
	s.Port = ms.port()
	s.Host = "127.0.0.1"
	s.Keyword = testKeywords
	s.Timeout = 2 * time.Second
	s.LogLevel = "off"
	return s
}

// connectTestClient connects a client to ms; it is closed when the test
// ends.
func connectTestClient(t *testing.T, ms *mockServer) *starsprotocol.Client {
	t.Helper()
	client := starsprotocol.NewClient(testSettings(ms).clientConfig(nil))
	if err := client.Connect(false); err != nil {
		t.Fatalf("failed to connect to mock server: %v", err)
	}
	t.Cleanup(client.Disconnect)
	return client
}
