package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	xhttp "AgriCast/pkg/http"
	applogger "AgriCast/pkg/logger"
)

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestRunContextClosesInReverse(t *testing.T) {
	var order []string
	closer := func(name string, err error) Closer {
		return Closer{Name: name, Closer: closeFunc(func() error {
			order = append(order, name)
			return err
		})}
	}
	boom := errors.New("boom")

	srv := xhttp.NewServer(nil, applogger.Nop(), xhttp.WithPort(freePort(t)))
	app := New(applogger.Nop(), srv, Closers{closer("first", nil), closer("second", boom)}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Fatalf("close order = %v", order)
	}
}
