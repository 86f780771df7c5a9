// Package fanout broadcasts lines read from a single input (normally a
// uat-correct pipe) to any number of connected TCP clients. It is the one
// concurrent component in this module: one reader goroutine, N writer
// goroutines, slow clients drop output rather than stall the reader.
package fanout

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultPort is the fan-out server's default TCP listen port.
const DefaultPort = 3333

// clientQueueLen bounds how many unwritten lines a slow client can
// accumulate before the broadcaster starts dropping its output.
const clientQueueLen = 64

// Server accepts client connections and re-broadcasts every line read from
// its input to all of them.
type Server struct {
	logger *logrus.Logger

	mu      sync.Mutex
	clients map[chan string]struct{}

	dropped uint64
}

// NewServer creates a fan-out server. Use Run to start it.
func NewServer(logger *logrus.Logger) *Server {
	return &Server{
		logger:  logger,
		clients: make(map[chan string]struct{}),
	}
}

// Run listens on addr, reads lines from r until EOF or ctx is canceled, and
// broadcasts each line to every connected client. It returns when the
// reader is exhausted or ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string, r io.Reader) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	go s.acceptLoop(ctx, ln)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		s.broadcast(scanner.Text())
	}
	return scanner.Err()
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				s.logger.WithError(err).Debug("fanout accept failed")
				return
			}
		}
		go s.handleClient(ctx, conn)
	}
}

func (s *Server) handleClient(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	queue := make(chan string, clientQueueLen)
	s.addClient(queue)
	defer s.removeClient(queue)

	s.logger.WithField("remote", conn.RemoteAddr()).Debug("fanout client connected")

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-queue:
			if !ok {
				return
			}
			if _, err := conn.Write([]byte(line + "\n")); err != nil {
				s.logger.WithError(err).WithField("remote", conn.RemoteAddr()).Debug("fanout client write failed")
				return
			}
		}
	}
}

func (s *Server) addClient(ch chan string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[ch] = struct{}{}
}

func (s *Server) removeClient(ch chan string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, ch)
}

// broadcast sends line to every connected client's queue, dropping it for
// clients whose queue is full rather than blocking.
func (s *Server) broadcast(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.clients {
		select {
		case ch <- line:
		default:
			s.dropped++
		}
	}
}

// ClientCount returns the number of currently connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Dropped returns how many lines have been dropped for slow clients so far.
func (s *Server) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
