package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	type tasks struct {
		IDs []string `json:"ids"`
	}
	want := tasks{IDs: []string{"t1", "t2"}}

	if err := c.Set("tasks:a1", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got tasks
	ok, err := c.Get("tasks:a1", &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got.IDs) != 2 || got.IDs[0] != "t1" {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheMiss(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	var v string
	ok, err := c.Get("absent", &v)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected miss for absent key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Nanosecond)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	var v string
	ok, err := c.Get("k", &v)
	if ok {
		t.Error("expected expired entry to miss")
	}
	if !errors.Is(err, ErrExpired) {
		t.Errorf("err = %v, want ErrExpired", err)
	}
}

func TestNamespaceIsolation(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}

	a := c.Namespace("a:")
	b := c.Namespace("b:")

	if err := a.Set("key", "from-a"); err != nil {
		t.Fatal(err)
	}

	var v string
	if ok, _ := b.Get("key", &v); ok {
		t.Error("namespaces should not share keys")
	}
	if ok, _ := a.Get("key", &v); !ok || v != "from-a" {
		t.Errorf("namespace a: hit=%v v=%q", ok, v)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try.
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("first-try success: err=%v calls=%d", err, calls)
	}

	// Non-retryable error stops immediately.
	permanent := errors.New("permanent")
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return permanent
	})
	if err != permanent || calls != 1 {
		t.Errorf("permanent error: err=%v calls=%d", err, calls)
	}

	// Retryable error triggers retries.
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("transient error: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errors.New("transient"))
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
}
