// Package kumatest runs an in-process Uptime Kuma stand-in that speaks
// enough Socket.IO for the kuma client: login, monitorList push and add.
package kumatest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type Server struct {
	*httptest.Server

	Username string
	Password string

	mu           sync.Mutex
	nextID       int
	monitors     map[int]map[string]any
	added        []map[string]any
	failAdd      map[string]string
	withholdList bool
	requireToken bool
	silent       bool
	logins       int
	pongs        int
	disconnected chan struct{}
}

func NewServer(username, password string) *Server {
	s := &Server{
		Username:     username,
		Password:     password,
		nextID:       1,
		monitors:     map[int]map[string]any{},
		failAdd:      map[string]string{},
		disconnected: make(chan struct{}, 16),
	}
	r := chi.NewRouter()
	r.Get("/socket.io/", s.serveSocket)
	s.Server = httptest.NewServer(r)
	return s
}

// SeedMonitor registers an existing HTTP monitor for url.
func (s *Server) SeedMonitor(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.monitors[id] = map[string]any{"id": id, "name": url, "url": url, "type": "http"}
	return id
}

// FailAdd makes add requests for url fail with msg.
func (s *Server) FailAdd(url, msg string) {
	s.mu.Lock()
	s.failAdd[url] = msg
	s.mu.Unlock()
}

// WithholdMonitorList stops the server from pushing monitorList after login.
func (s *Server) WithholdMonitorList() {
	s.mu.Lock()
	s.withholdList = true
	s.mu.Unlock()
}

// RequireToken makes login answer as an account with two-factor enabled.
func (s *Server) RequireToken() {
	s.mu.Lock()
	s.requireToken = true
	s.mu.Unlock()
}

// Silence makes the server stop answering acks.
func (s *Server) Silence() {
	s.mu.Lock()
	s.silent = true
	s.mu.Unlock()
}

// Added returns the payloads of every accepted add request, in order.
func (s *Server) Added() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.added...)
}

func (s *Server) AddedURLs() []string {
	var out []string
	for _, m := range s.Added() {
		u, _ := m["url"].(string)
		out = append(out, u)
	}
	return out
}

func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

func (s *Server) Pongs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pongs
}

// WaitDisconnect reports whether a client ended its session within d.
func (s *Server) WaitDisconnect(d time.Duration) bool {
	select {
	case <-s.disconnected:
		return true
	case <-time.After(d):
		return false
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

func (s *Server) serveSocket(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("EIO") != "4" || r.URL.Query().Get("transport") != "websocket" {
		http.Error(w, "bad transport", http.StatusBadRequest)
		return
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	c := &conn{srv: s, ws: ws}
	c.send(`0{"sid":"test","upgrades":[],"pingInterval":25000,"pingTimeout":20000,"maxPayload":1000000}`)

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil || !c.handle(string(msg)) {
			select {
			case s.disconnected <- struct{}{}:
			default:
			}
			return
		}
	}
}

type conn struct {
	srv      *Server
	ws       *websocket.Conn
	loggedIn bool
}

func (c *conn) send(frame string) {
	_ = c.ws.WriteMessage(websocket.TextMessage, []byte(frame))
}

// handle returns false once the client said goodbye.
func (c *conn) handle(msg string) bool {
	switch {
	case msg == "3":
		c.srv.mu.Lock()
		c.srv.pongs++
		c.srv.mu.Unlock()
	case msg == "40":
		c.send(`40{"sid":"ns-test"}`)
		c.send("2") // ping straight away so clients must answer
		c.send(`42["info",{"version":"1.23.16"}]`)
	case msg == "41":
		return false
	case len(msg) > 2 && msg[:2] == "42":
		c.handleEvent(msg[2:])
	}
	return true
}

func (c *conn) handleEvent(body string) {
	i := 0
	for i < len(body) && body[i] >= '0' && body[i] <= '9' {
		i++
	}
	id, _ := strconv.Atoi(body[:i])
	var args []json.RawMessage
	if err := json.Unmarshal([]byte(body[i:]), &args); err != nil || len(args) < 1 {
		return
	}
	var event string
	_ = json.Unmarshal(args[0], &event)

	c.srv.mu.Lock()
	silent := c.srv.silent
	c.srv.mu.Unlock()
	if silent {
		return
	}

	switch event {
	case "login":
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if len(args) > 1 {
			_ = json.Unmarshal(args[1], &req)
		}
		if req.Username != c.srv.Username || req.Password != c.srv.Password {
			c.ack(id, map[string]any{"ok": false, "msg": "Incorrect username or password."})
			return
		}
		c.srv.mu.Lock()
		needToken := c.srv.requireToken
		c.srv.mu.Unlock()
		if needToken {
			c.ack(id, map[string]any{"tokenRequired": true})
			return
		}
		c.loggedIn = true
		c.srv.mu.Lock()
		c.srv.logins++
		c.srv.mu.Unlock()
		c.ack(id, map[string]any{"ok": true, "token": "jwt"})
		c.pushMonitorList()

	case "add":
		if !c.loggedIn {
			c.ack(id, map[string]any{"ok": false, "msg": "You are not logged in."})
			return
		}
		var m map[string]any
		if len(args) > 1 {
			_ = json.Unmarshal(args[1], &m)
		}
		if m == nil {
			m = map[string]any{}
		}
		url, _ := m["url"].(string)

		c.srv.mu.Lock()
		if msg, fail := c.srv.failAdd[url]; fail {
			c.srv.mu.Unlock()
			c.ack(id, map[string]any{"ok": false, "msg": msg})
			return
		}
		mid := c.srv.nextID
		c.srv.nextID++
		m["id"] = mid
		c.srv.monitors[mid] = m
		c.srv.added = append(c.srv.added, m)
		c.srv.mu.Unlock()

		c.ack(id, map[string]any{"ok": true, "msg": "Added Successfully.", "monitorID": mid})
		c.pushMonitorList()

	default:
		c.ack(id, map[string]any{"ok": false, "msg": fmt.Sprintf("unknown event %q", event)})
	}
}

func (c *conn) ack(id int, v any) {
	b, _ := json.Marshal([]any{v})
	c.send("43" + strconv.Itoa(id) + string(b))
}

func (c *conn) pushMonitorList() {
	c.srv.mu.Lock()
	if c.srv.withholdList {
		c.srv.mu.Unlock()
		return
	}
	list := make(map[string]any, len(c.srv.monitors))
	for id, m := range c.srv.monitors {
		list[strconv.Itoa(id)] = m
	}
	c.srv.mu.Unlock()

	b, _ := json.Marshal([]any{"monitorList", list})
	c.send("42" + string(b))
}
