package kuma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Engine.IO v4 packet types.
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
)

// Socket.IO packet types, carried inside an Engine.IO message.
const (
	sioConnect      = '0'
	sioDisconnect   = '1'
	sioEvent        = '2'
	sioAck          = '3'
	sioConnectError = '4'
)

const writeWait = 10 * time.Second

// socket is a minimal Socket.IO client on the default namespace: it emits
// events with acknowledgements and keeps the last payload of every event
// the server pushes. One goroutine reads; writes are serialized.
type socket struct {
	ws  *websocket.Conn
	log *zap.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int
	acks    map[int]chan json.RawMessage
	events  map[string]json.RawMessage
	changed chan struct{} // closed and replaced whenever an event arrives
	err     error

	connected   chan struct{}
	connectOnce sync.Once
	done        chan struct{}
	doneOnce    sync.Once
	readDone    chan struct{}
}

// socketURL maps http(s)://host[/prefix] to the websocket transport URL.
func socketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/socket.io/"
	u.RawQuery = "EIO=4&transport=websocket"
	return u.String(), nil
}

func dial(ctx context.Context, base string, log *zap.Logger) (*socket, error) {
	target, err := socketURL(base)
	if err != nil {
		return nil, err
	}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return nil, err
	}

	// The server speaks first with the Engine.IO open packet.
	if dl, ok := ctx.Deadline(); ok {
		_ = ws.SetReadDeadline(dl)
	}
	_, msg, err := ws.ReadMessage()
	if err != nil {
		ws.Close()
		return nil, fmt.Errorf("read open packet: %w", err)
	}
	if len(msg) == 0 || msg[0] != eioOpen {
		ws.Close()
		return nil, fmt.Errorf("unexpected handshake %q", truncate(msg))
	}
	_ = ws.SetReadDeadline(time.Time{})

	s := &socket{
		ws:        ws,
		log:       log,
		acks:      make(map[int]chan json.RawMessage),
		events:    make(map[string]json.RawMessage),
		changed:   make(chan struct{}),
		connected: make(chan struct{}),
		done:      make(chan struct{}),
		readDone:  make(chan struct{}),
	}
	go s.readLoop()

	if err := s.write(string([]byte{eioMessage, sioConnect})); err != nil {
		s.close()
		return nil, err
	}
	select {
	case <-s.connected:
		return s, nil
	case <-s.done:
		err := s.closedErr()
		s.close()
		return nil, err
	case <-ctx.Done():
		s.close()
		return nil, waitErr(ctx, "namespace connect")
	}
}

func (s *socket) readLoop() {
	defer close(s.readDone)
	for {
		_, msg, err := s.ws.ReadMessage()
		if err != nil {
			s.shutdown(fmt.Errorf("%w: %w", ErrClosed, err))
			return
		}
		s.handle(msg)
	}
}

func (s *socket) handle(msg []byte) {
	if len(msg) == 0 {
		return
	}
	switch msg[0] {
	case eioPing:
		if err := s.write(string(eioPong)); err != nil {
			s.log.Debug("kuma_pong_failed", zap.Error(err))
		}
	case eioClose:
		s.shutdown(fmt.Errorf("%w: server closed transport", ErrClosed))
	case eioMessage:
		s.handlePacket(msg[1:])
	}
}

func (s *socket) handlePacket(p []byte) {
	if len(p) == 0 {
		return
	}
	typ, rest := p[0], p[1:]
	switch typ {
	case sioConnect:
		s.connectOnce.Do(func() { close(s.connected) })
	case sioConnectError:
		s.shutdown(fmt.Errorf("%w: connect refused: %s", ErrClosed, truncate(rest)))
	case sioDisconnect:
		s.shutdown(fmt.Errorf("%w: server disconnected", ErrClosed))
	case sioEvent:
		_, body, _ := splitID(rest)
		s.handleEvent(body)
	case sioAck:
		id, body, ok := splitID(rest)
		if !ok {
			s.log.Debug("kuma_ack_without_id", zap.ByteString("packet", truncate(p)))
			return
		}
		s.handleAck(id, body)
	default:
		s.log.Debug("kuma_unknown_packet", zap.ByteString("packet", truncate(p)))
	}
}

func (s *socket) handleEvent(body []byte) {
	var args []json.RawMessage
	if err := json.Unmarshal(body, &args); err != nil || len(args) == 0 {
		s.log.Debug("kuma_bad_event", zap.ByteString("body", truncate(body)))
		return
	}
	var name string
	if err := json.Unmarshal(args[0], &name); err != nil {
		return
	}
	data := json.RawMessage("null")
	if len(args) > 1 {
		data = args[1]
	}

	s.mu.Lock()
	s.events[name] = data
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
}

func (s *socket) handleAck(id int, body []byte) {
	var args []json.RawMessage
	_ = json.Unmarshal(body, &args)
	data := json.RawMessage("null")
	if len(args) > 0 {
		data = args[0]
	}

	s.mu.Lock()
	ch, ok := s.acks[id]
	delete(s.acks, id)
	s.mu.Unlock()
	if ok {
		ch <- data // buffered
	}
}

// emit sends event with a single argument and waits for its ack.
func (s *socket) emit(ctx context.Context, event string, arg any) (json.RawMessage, error) {
	payload, err := json.Marshal([]any{event, arg})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}

	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return nil, err
	}
	id := s.nextID
	s.nextID++
	ch := make(chan json.RawMessage, 1)
	s.acks[id] = ch
	s.mu.Unlock()

	frame := string([]byte{eioMessage, sioEvent}) + strconv.Itoa(id) + string(payload)
	if err := s.write(frame); err != nil {
		s.dropAck(id)
		return nil, err
	}

	select {
	case data := <-ch:
		return data, nil
	case <-s.done:
		return nil, s.closedErr()
	case <-ctx.Done():
		s.dropAck(id)
		return nil, waitErr(ctx, event)
	}
}

// waitEvent returns the latest payload of a server-pushed event, waiting
// for the first one if it has not arrived yet.
func (s *socket) waitEvent(ctx context.Context, name string) (json.RawMessage, error) {
	for {
		s.mu.Lock()
		data, ok := s.events[name]
		changed := s.changed
		s.mu.Unlock()
		if ok {
			return data, nil
		}

		select {
		case <-changed:
		case <-s.done:
			return nil, s.closedErr()
		case <-ctx.Done():
			return nil, waitErr(ctx, name)
		}
	}
}

func (s *socket) write(frame string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.ws.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return nil
}

func (s *socket) dropAck(id int) {
	s.mu.Lock()
	delete(s.acks, id)
	s.mu.Unlock()
}

func (s *socket) shutdown(err error) {
	s.doneOnce.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	})
}

func (s *socket) closedErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		return ErrClosed
	}
	return s.err
}

// close says goodbye on the namespace, closes the websocket and waits for
// the reader to exit.
func (s *socket) close() error {
	select {
	case <-s.done:
	default:
		_ = s.write(string([]byte{eioMessage, sioDisconnect}))
		s.writeMu.Lock()
		_ = s.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
	}
	s.shutdown(ErrClosed)
	err := s.ws.Close()
	<-s.readDone
	return err
}

// splitID separates the optional numeric ack id that prefixes a packet body.
func splitID(b []byte) (int, []byte, bool) {
	i := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, b, false
	}
	id, err := strconv.Atoi(string(b[:i]))
	if err != nil {
		return 0, b[i:], false
	}
	return id, b[i:], true
}

func waitErr(ctx context.Context, what string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w waiting for %s", ErrTimeout, what)
	}
	return ctx.Err()
}

func truncate(b []byte) []byte {
	const limit = 200
	b = bytes.TrimSpace(b)
	if len(b) > limit {
		return b[:limit]
	}
	return b
}
