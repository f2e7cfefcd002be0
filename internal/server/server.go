package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/DevOrc/mini/internal/discovery"
	"github.com/DevOrc/mini/internal/logging"
	"github.com/DevOrc/mini/internal/version"
)

const (
	// DefaultPort is the relay's default listening port
	DefaultPort = 6667

	// DefaultPath is the websocket endpoint
	DefaultPath = discovery.DefaultPath

	shutdownTimeout = 10 * time.Second
)

// Config holds the relay configuration
type Config struct {
	Host      string
	Port      int
	Path      string // websocket endpoint, DefaultPath when empty
	CertPath  string // TLS is enabled when both CertPath and KeyPath are set
	KeyPath   string
	MOTD      string // Sent as a notice after hello
	Advertise bool   // Register the relay via mDNS
	Instance  string // mDNS instance name, derived from the hostname when empty
}

// Server is the chat relay
type Server struct {
	config     *Config
	hub        *Hub
	tlsConfig  *tls.Config
	upgrader   websocket.Upgrader
	httpServer *http.Server
	listener   net.Listener
	advert     *discovery.Advertisement
	wg         sync.WaitGroup
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if config.Path == "" {
		config.Path = DefaultPath
	}

	var tlsConfig *tls.Config
	if config.CertPath != "" || config.KeyPath != "" {
		if config.CertPath == "" || config.KeyPath == "" {
			return nil, errors.New("both a certificate and a key are required for TLS")
		}
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	s := &Server{
		config:    config,
		hub:       newHub(config.MOTD),
		tlsConfig: tlsConfig,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Terminal clients send no Origin header.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the relay's HTTP handler: the websocket endpoint and a
// health check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintf(w, "ok %d\n", s.hub.Count())
	})
	return mux
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	logging.LogConnection(r.RemoteAddr, "websocket_upgraded")

	p := newPeer(s.hub, conn, r.RemoteAddr)
	s.hub.register(p)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		p.writePump()
	}()

	s.wg.Add(1)
	defer s.wg.Done()
	p.readPump()
	logging.LogConnection(r.RemoteAddr, "websocket_closed")
}

// Listen opens the listening socket. Start calls it; tests call it directly
// with port 0.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address once Listen has succeeded.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// URL returns the websocket URL clients should dial.
func (s *Server) URL() string {
	scheme := "ws"
	if s.tlsConfig != nil {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s%s", scheme, s.Addr(), s.config.Path)
}

// Serve accepts connections until Shutdown.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}
	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Start listens, optionally advertises via mDNS, and blocks until SIGINT,
// SIGTERM or a listener error.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}

	logging.Info("Starting mini relay",
		zap.String("addr", s.Addr().String()),
		zap.String("path", s.config.Path),
		zap.Bool("tls", s.tlsConfig != nil),
		zap.String("version", version.Version),
	)
	if s.tlsConfig != nil {
		logging.Info("TLS Configuration", zap.Any("tls_info", GetTLSInfo(s.tlsConfig)))
	}

	if s.config.Advertise {
		s.advertise()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping relay...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

func (s *Server) advertise() {
	instance := s.config.Instance
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "localhost"
		}
		instance = "mini-relay on " + host
	}

	port := s.config.Port
	if tcp, ok := s.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}

	ad, err := discovery.Advertise(instance, port, s.config.Path, s.tlsConfig != nil, version.Version)
	if err != nil {
		// Discovery is optional; clients can still dial directly.
		logging.Warn("mDNS advertisement failed", zap.Error(err))
		return
	}
	s.advert = ad
}

// Shutdown gracefully shuts down the relay
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down relay...")

	s.advert.Shutdown()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logging.Error("Error stopping HTTP server", zap.Error(err))
	}

	// Hijacked websocket connections are not closed by http.Server.
	s.hub.closeAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return nil
}

// GetActiveConnections returns the number of connected peers
func (s *Server) GetActiveConnections() int {
	return s.hub.Count()
}

// Members returns the nicknames joined to channel
func (s *Server) Members(channel string) []string {
	return s.hub.Members(channel)
}
