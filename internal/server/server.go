package server

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/pmatos/pog/internal/logging"
)

// maxPortAttempts bounds the scan for a free port above the configured one.
const maxPortAttempts = 100

// Request pairs a parsed command with the channel its answer must go to.
// The UI goroutine consumes requests and replies synchronously.
type Request struct {
	Command any
	Reply   chan Response
}

// Server accepts line-oriented control connections on localhost and
// forwards parsed commands to the UI.
type Server struct {
	listener net.Listener
	port     int
	requests chan<- Request
}

// Start binds 127.0.0.1 at the first free port from port upward and
// launches the accept loop. The returned server reports the port actually
// bound.
func Start(port int, requests chan<- Request) (*Server, error) {
	listener, actual, err := bind(port)
	if err != nil {
		return nil, err
	}

	s := &Server{listener: listener, port: actual, requests: requests}
	logging.Log(logging.CompServer).Info("control server listening", "addr", listener.Addr().String())

	go s.acceptLoop()
	return s, nil
}

// Port returns the bound port.
func (s *Server) Port() int {
	return s.port
}

// Close stops accepting connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

func bind(port int) (net.Listener, int, error) {
	for offset := 0; offset < maxPortAttempts; offset++ {
		candidate := port + offset
		listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", candidate))
		if err == nil {
			return listener, candidate, nil
		}
		if errors.Is(err, syscall.EADDRINUSE) {
			continue
		}
		return nil, 0, err
	}
	return nil, 0, fmt.Errorf("no free port in range %d-%d", port, port+maxPortAttempts-1)
}

func (s *Server) acceptLoop() {
	log := logging.Log(logging.CompServer)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warn("accept failed", "error", err)
			continue
		}
		go s.handleClient(conn)
	}
}

func (s *Server) handleClient(conn net.Conn) {
	defer conn.Close()
	log := logging.Log(logging.CompServer).With("peer", conn.RemoteAddr().String())

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4*1024), 64*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		resp := s.dispatch(line)
		if _, err := fmt.Fprintf(conn, "%s\n", resp); err != nil {
			log.Warn("write failed", "error", err)
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn("read failed", "error", err)
	}
}

func (s *Server) dispatch(line string) Response {
	cmd, err := ParseCommand(line)
	if err != nil {
		return Errorf("%v", err)
	}

	reply := make(chan Response, 1)
	s.requests <- Request{Command: cmd, Reply: reply}
	return <-reply
}
