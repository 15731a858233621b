package api

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"gitlab.com/tinyland/lab/sysmon/monitor"
)

type streamSnapshot struct {
	State string             `json:"state"`
	Logs  []monitor.LogEntry `json:"logs"`
}

func TestStreamPushesSnapshots(t *testing.T) {
	m := newTestMonitor(t)
	srv := httptest.NewServer(NewRouter(m, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var first streamSnapshot
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read: %v", err)
	}
	if first.State != "running" {
		t.Errorf("state = %q", first.State)
	}

	m.RecordEvent("pushed", monitor.SeveritySuccess)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		var snap streamSnapshot
		conn.SetReadDeadline(deadline)
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("read: %v", err)
		}
		if len(snap.Logs) > 0 && snap.Logs[0].Message == "pushed" {
			return
		}
	}
	t.Fatal("no snapshot carried the new event")
}

func TestServerShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer(ln.Addr().String(), newTestMonitor(t), nil)

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Fatal("server did not stop")
	}
}
