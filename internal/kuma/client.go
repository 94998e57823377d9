// Package kuma talks to an Uptime Kuma server over its Socket.IO API:
// log in, read the monitor list, add monitors.
package kuma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/webmonitorsync/internal/domain"
)

var (
	ErrAuth    = errors.New("uptime kuma authentication failed")
	ErrTimeout = errors.New("uptime kuma timeout")
	ErrClosed  = errors.New("uptime kuma connection closed")
)

// ServiceError is a request the server answered with ok=false.
type ServiceError struct {
	Op  string
	Msg string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("uptime kuma %s: %s", e.Op, e.Msg)
}

type Credentials struct {
	Username string
	Password string
}

type Client struct {
	URL     string
	Creds   Credentials
	Timeout time.Duration // per call, and for the monitor list to arrive
	Logger  *zap.Logger
}

func New(baseURL string, creds Credentials, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{URL: baseURL, Creds: creds, Timeout: timeout, Logger: logger}
}

// Open connects and logs in. The caller owns the session and must Close it.
// A rejected login returns an error matching ErrAuth.
func (c *Client) Open(ctx context.Context) (*Session, error) {
	dctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	sock, err := dial(dctx, c.URL, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.URL, err)
	}

	s := &Session{sock: sock, timeout: c.Timeout}
	if err := s.login(ctx, c.Creds); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Session is one authenticated connection.
type Session struct {
	sock    *socket
	timeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

type loginResponse struct {
	OK            bool   `json:"ok"`
	Msg           string `json:"msg"`
	Token         string `json:"token"`
	TokenRequired bool   `json:"tokenRequired"`
}

func (s *Session) login(ctx context.Context, creds Credentials) error {
	var resp loginResponse
	req := map[string]string{
		"username": creds.Username,
		"password": creds.Password,
		"token":    "",
	}
	if err := s.call(ctx, "login", req, &resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.TokenRequired {
		return fmt.Errorf("%w: two-factor token required", ErrAuth)
	}
	if !resp.OK {
		return fmt.Errorf("%w: %s", ErrAuth, resp.Msg)
	}
	return nil
}

// Monitors returns the monitor list the server pushes after login, ordered
// by ID. If it does not arrive within the timeout the error matches
// ErrTimeout.
func (s *Session) Monitors(ctx context.Context) ([]domain.Monitor, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.sock.waitEvent(cctx, "monitorList")
	if err != nil {
		return nil, fmt.Errorf("monitor list: %w", err)
	}
	var byID map[string]domain.Monitor
	if err := json.Unmarshal(raw, &byID); err != nil {
		return nil, fmt.Errorf("decode monitor list: %w", err)
	}
	out := make([]domain.Monitor, 0, len(byID))
	for _, m := range byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type addResponse struct {
	OK        bool   `json:"ok"`
	Msg       string `json:"msg"`
	MonitorID int    `json:"monitorID"`
}

// AddMonitor creates one monitor and returns its ID. A rejection by the
// server is a *ServiceError.
func (s *Session) AddMonitor(ctx context.Context, m domain.MonitorTemplate) (int, error) {
	var resp addResponse
	if err := s.call(ctx, "add", m, &resp); err != nil {
		return 0, fmt.Errorf("add %s: %w", m.URL, err)
	}
	if !resp.OK {
		return 0, &ServiceError{Op: "add", Msg: resp.Msg}
	}
	return resp.MonitorID, nil
}

// Close disconnects. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.sock.close()
	})
	return s.closeErr
}

func (s *Session) call(ctx context.Context, event string, arg, out any) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.sock.emit(cctx, event, arg)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", event, err)
	}
	return nil
}
