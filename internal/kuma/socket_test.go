package kuma

import "testing"

func TestSocketURL(t *testing.T) {
	cases := []struct {
		in, want string
		bad      bool
	}{
		{in: "http://192.168.30.84:3001", want: "ws://192.168.30.84:3001/socket.io/?EIO=4&transport=websocket"},
		{in: "https://status.example.com/", want: "wss://status.example.com/socket.io/?EIO=4&transport=websocket"},
		{in: "https://example.com/kuma", want: "wss://example.com/kuma/socket.io/?EIO=4&transport=websocket"},
		{in: "ftp://example.com", bad: true},
	}
	for _, c := range cases {
		got, err := socketURL(c.in)
		if c.bad {
			if err == nil {
				t.Fatalf("socketURL(%q) want error", c.in)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Fatalf("socketURL(%q)=%q,%v want %q", c.in, got, err, c.want)
		}
	}
}

func TestSplitID(t *testing.T) {
	id, rest, ok := splitID([]byte(`12[{"ok":true}]`))
	if !ok || id != 12 || string(rest) != `[{"ok":true}]` {
		t.Fatalf("got %d %q %v", id, rest, ok)
	}
	_, rest, ok = splitID([]byte(`["monitorList",{}]`))
	if ok || string(rest) != `["monitorList",{}]` {
		t.Fatalf("event without id: %q %v", rest, ok)
	}
}
