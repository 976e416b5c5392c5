package net

import (
	"crypto/tls"
	"net"
	"sync/atomic"

	"go.uber.org/zap"
)

// Server accepts TCP (and optionally TLS) connections and creates
// Sessions. New sessions reach the game loop over a channel; the game
// loop finds dead ones through Session.IsClosed.
type Server struct {
	listeners []net.Listener
	nextID    atomic.Uint64
	newConns  chan *Session
	inSize    int
	outSize   int
	log       *zap.Logger
	closeCh   chan struct{}
}

func NewServer(inSize, outSize int, log *zap.Logger) *Server {
	return &Server{
		newConns: make(chan *Session, 64),
		inSize:   inSize,
		outSize:  outSize,
		log:      log,
		closeCh:  make(chan struct{}),
	}
}

// Listen opens a plain TCP listener.
func (s *Server) Listen(bindAddr string) error {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return err
	}
	s.listeners = append(s.listeners, ln)
	return nil
}

// ListenTLS opens a TLS listener. The framing above the record layer is
// identical to the plain listener.
func (s *Server) ListenTLS(bindAddr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return err
	}
	ln, err := tls.Listen("tcp", bindAddr, &tls.Config{Certificates: []tls.Certificate{cert}})
	if err != nil {
		return err
	}
	s.listeners = append(s.listeners, ln)
	return nil
}

// AcceptLoops starts one accept goroutine per listener.
func (s *Server) AcceptLoops() {
	for _, ln := range s.listeners {
		go s.acceptLoop(ln)
	}
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return // server shutting down
			default:
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}

		id := s.nextID.Add(1)
		sess := NewSession(conn, id, s.inSize, s.outSize, s.log)
		sess.Start()

		s.log.Info("connection", zap.Uint64("session", id), zap.String("host", sess.Host))

		select {
		case s.newConns <- sess:
		default:
			s.log.Warn("connection queue full, refusing session")
			sess.Close()
		}
	}
}

// NewSessions returns the channel of newly connected sessions.
func (s *Server) NewSessions() <-chan *Session {
	return s.newConns
}

// Addr returns the first listener's address string.
func (s *Server) Addr() string {
	if len(s.listeners) == 0 {
		return ""
	}
	return s.listeners[0].Addr().String()
}

// Shutdown stops accepting new connections.
func (s *Server) Shutdown() {
	close(s.closeCh)
	for _, ln := range s.listeners {
		ln.Close()
	}
}
