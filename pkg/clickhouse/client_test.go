package clickhouse

import (
	"context"
	"net/url"
	"testing"
	"time"
)

func TestBuildDSN(t *testing.T) {
	cfg := &ClientConfig{
		Host:        "ch.local",
		Port:        9000,
		Database:    "agricast",
		User:        "reader",
		Password:    "p@ss",
		DialTimeout: 5 * time.Second,
		MaxExecTime: 60 * time.Second,
	}
	u, err := url.Parse(buildDSN(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if u.Scheme != "clickhouse" || u.Host != "ch.local:9000" || u.Path != "/agricast" {
		t.Fatalf("dsn = %s", u)
	}
	if pw, _ := u.User.Password(); pw != "p@ss" || u.User.Username() != "reader" {
		t.Fatalf("credentials = %v", u.User)
	}
	q := u.Query()
	if q.Get("dial_timeout") != "5s" || q.Get("max_execution_time") != "60" || q.Has("read_timeout") {
		t.Fatalf("query = %v", q)
	}

	cfg.UseHTTP = true
	if u, _ := url.Parse(buildDSN(cfg)); u.Scheme != "http" {
		t.Fatalf("http scheme = %s", u.Scheme)
	}
}

func TestNewClientRequiresHost(t *testing.T) {
	if _, err := NewClient(context.Background()); err == nil {
		t.Fatal("expected error without host")
	}
}
