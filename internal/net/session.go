package net

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// InputBufferSize bounds one command line.
const InputBufferSize = 256

// Session is a single client connection. Network I/O runs in dedicated
// goroutines; game state is accessed only from the game loop.
type Session struct {
	ID   uint64
	conn net.Conn

	InQueue  chan string // complete input lines, game loop reads these
	OutQueue chan []byte // writer goroutine drains this

	Host string

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	writeTimeout time.Duration
	log          *zap.Logger
}

func NewSession(conn net.Conn, id uint64, inSize, outSize int, log *zap.Logger) *Session {
	host := conn.RemoteAddr().String()
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan string, inSize),
		OutQueue:     make(chan []byte, outSize),
		Host:         host,
		closeCh:      make(chan struct{}),
		writeTimeout: 10 * time.Second,
		log:          log.With(zap.Uint64("session", id)),
	}
}

// Start launches the reader and writer goroutines and performs the
// minimal telnet negotiation (suppress go-ahead).
func (s *Session) Start() {
	s.Send([]byte{IAC, WILL, TELOPT_SGA})
	go s.readLoop()
	go s.writeLoop()
}

// Send queues bytes for sending. Non-blocking: if the out queue is
// full, the session is dropped (backpressure against slow clients).
func (s *Session) Send(data []byte) {
	if s.closed.Load() {
		return
	}
	select {
	case s.OutQueue <- data:
	default:
		s.log.Warn("output queue full, dropping slow session")
		s.Close()
	}
}

// SendString queues text for sending.
func (s *Session) SendString(text string) {
	s.Send([]byte(text))
}

// EchoOff asks the client to stop local echo (password entry).
func (s *Session) EchoOff() {
	s.Send([]byte{IAC, WILL, TELOPT_ECHO})
}

// EchoOn restores local echo.
func (s *Session) EchoOn() {
	s.Send([]byte{IAC, WONT, TELOPT_ECHO})
}

// Close shuts the session down.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		s.conn.Close()
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// readLoop reads raw bytes, filters telnet IAC sequences, honors
// backspace and ^U in-buffer, and emits complete CR/LF-terminated lines
// onto InQueue.
func (s *Session) readLoop() {
	defer s.Close()

	var line []byte
	raw := make([]byte, 512)
	var tel telnetFilter

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		n, err := s.conn.Read(raw)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		for _, c := range tel.Filter(raw[:n]) {
			switch c {
			case '\b', 0x7F:
				if len(line) > 0 {
					line = line[:len(line)-1]
				}
			case 0x15: // ^U clears the line
				line = line[:0]
			case '\r', '\n':
				if len(line) == 0 {
					continue
				}
				// Block until the game loop has room; the goroutine is
				// per-session, so only this client waits.
				select {
				case s.InQueue <- string(line):
				case <-s.closeCh:
					return
				}
				line = line[:0]
			default:
				if c < ' ' {
					continue
				}
				if len(line) < InputBufferSize {
					line = append(line, c)
				}
			}
		}
	}
}

// writeLoop drains OutQueue onto the connection.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case data := <-s.OutQueue:
			s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if _, err := s.conn.Write(data); err != nil {
				if !s.closed.Load() {
					s.log.Debug("write error", zap.Error(err))
				}
				return
			}
		case <-s.closeCh:
			return
		}
	}
}
