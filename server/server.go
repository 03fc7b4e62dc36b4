package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/lazharichir/nutsrv/domain"
	"github.com/lazharichir/nutsrv/history"
	"github.com/lazharichir/nutsrv/server/connection"
	"github.com/lazharichir/nutsrv/server/events"
	"github.com/lazharichir/nutsrv/server/handlers"
	"github.com/lazharichir/nutsrv/server/protocol"
	"github.com/sirupsen/logrus"
)

// Options configures a Server
type Options struct {
	ListenAddr  string
	HTTPAddr    string
	Tick        time.Duration
	AuthSecret  string
	CORSOrigins []string
	Logger      logrus.FieldLogger
}

type inbound struct {
	client *connection.Client
	line   string
}

// Server runs the control loop and the network front-ends.
// Only the loop goroutine touches the registry.
type Server struct {
	opts       Options
	registry   *domain.Registry
	history    history.Store
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *events.Dispatcher
	logger     logrus.FieldLogger

	lines chan inbound
	gone  chan int
	do    chan func()

	ready    chan struct{}
	tcpAddr  net.Addr
	httpAddr net.Addr
}

// NewServer wires the registry, the hand ledger and the client layer together
func NewServer(registry *domain.Registry, store history.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Tick <= 0 {
		opts.Tick = 100 * time.Millisecond
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if store == nil {
		store = history.NewInMemoryStore()
	}

	connMgr := connection.NewManager(opts.Logger)
	dispatcher := events.NewDispatcher(connMgr, registry, opts.Logger)
	cmdRouter := handlers.NewCommandRouter(registry, connMgr, opts.AuthSecret, opts.Logger)

	// Register dispatcher and ledger as event handlers for the registry
	registry.AddEventHandler(dispatcher.HandleEvent)
	registry.AddEventHandler(history.Handler(store, opts.Logger))

	return &Server{
		opts:       opts,
		registry:   registry,
		history:    store,
		connMgr:    connMgr,
		cmdRouter:  cmdRouter,
		dispatcher: dispatcher,
		logger:     opts.Logger,
		lines:      make(chan inbound, 64),
		gone:       make(chan int, 16),
		do:         make(chan func()),
		ready:      make(chan struct{}),
	}
}

// Run listens on the configured addresses and blocks until ctx is cancelled
// or a listener fails
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.ListenAddr)
	if err != nil {
		return err
	}
	hl, err := net.Listen("tcp", s.opts.HTTPAddr)
	if err != nil {
		ln.Close()
		return err
	}
	s.tcpAddr, s.httpAddr = ln.Addr(), hl.Addr()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpSrv := &http.Server{
		Handler:     s.Handler(ctx),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	fail := func(err error) {
		errs <- err
		cancel()
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		s.logger.WithField("addr", ln.Addr().String()).Info("game server listening")
		if err := s.acceptLoop(ctx, ln); err != nil {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		s.logger.WithField("addr", hl.Addr().String()).Info("http server listening")
		if err := httpSrv.Serve(hl); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fail(err)
		}
	}()

	close(s.ready)
	s.loop(ctx)

	s.logger.Info("shutting down")
	ln.Close()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		s.logger.WithError(err).Warn("http server shutdown")
	}
	s.connMgr.RemoveAll()
	wg.Wait()

	select {
	case err := <-errs:
		return err
	default:
		return nil
	}
}

// loop is the only goroutine that reads or changes game state
func (s *Server) loop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case in := <-s.lines:
			if _, ok := s.connMgr.Get(in.client.ID); !ok {
				continue
			}
			if closeConn := s.cmdRouter.HandleLine(in.client, in.line); closeConn {
				s.connMgr.Remove(in.client.ID)
			}

		case id := <-s.gone:
			s.registry.ClientDisconnected(id)
			s.connMgr.Remove(id)

		case fn := <-s.do:
			fn()

		case <-ticker.C:
			s.registry.Tick()
		}
	}
}

// query runs fn on the loop goroutine and waits for it
func (s *Server) query(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case s.do <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.serveConn(ctx, connection.NewTCPConn(conn, s.logger))
	}
}

// serveConn greets the client, pumps its lines into the loop and reports
// the disconnect once the transport fails
func (s *Server) serveConn(ctx context.Context, conn connection.Conn) {
	client := s.connMgr.Add(conn.RemoteAddr(), protocol.Hello)
	go connection.WritePump(client, conn, s.logger)

	err := conn.ReadLines(func(line string) {
		select {
		case s.lines <- inbound{client: client, line: line}:
		case <-ctx.Done():
		}
	})
	if err != nil {
		s.logger.WithError(err).WithField("client", client.ID).Debug("read failed")
	}

	select {
	case s.gone <- client.ID:
	case <-ctx.Done():
	}
}
