package ratelimit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	t.Run("ValidBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		if limiter == nil {
			t.Fatal("NewLimiter() returned nil for valid input")
		}
		if limiter.BytesPerSecond() != 1024*1024 {
			t.Errorf("BytesPerSecond() = %d, want %d", limiter.BytesPerSecond(), 1024*1024)
		}
		if limiter.burst != 1024*1024 {
			t.Errorf("burst = %d, want one second of data", limiter.burst)
		}
	})

	t.Run("NonPositiveDisablesLimiting", func(t *testing.T) {
		if NewLimiter(0) != nil {
			t.Error("NewLimiter(0) should return nil")
		}
		if NewLimiter(-100) != nil {
			t.Error("NewLimiter(-100) should return nil")
		}
		var none *Limiter
		if none.BytesPerSecond() != 0 {
			t.Error("BytesPerSecond() on nil limiter should be 0")
		}
	})

	t.Run("SmallRateHasMinimumBurst", func(t *testing.T) {
		limiter := NewLimiter(1000)
		if limiter.burst != minBurst {
			t.Errorf("burst = %d, want %d", limiter.burst, minBurst)
		}
	})
}

func TestNewReader(t *testing.T) {
	ctx := context.Background()
	base := strings.NewReader("test content")

	if _, ok := NewReader(ctx, base, NewLimiter(1024)).(*Reader); !ok {
		t.Error("NewReader() should return *Reader when a limiter is provided")
	}
	if NewReader(ctx, base, nil) != io.Reader(base) {
		t.Error("NewReader() with nil limiter should return the original reader")
	}
}

func TestReaderCopiesAllData(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 20000) // 200KB, above one burst

	reader := NewReader(context.Background(), bytes.NewReader(data), NewLimiter(100*1024*1024))
	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("read %d bytes, want %d identical bytes", len(got), len(data))
	}
}

func TestReaderThrottles(t *testing.T) {
	// 64KB burst then 64KB/s: 128KB needs about one second
	data := make([]byte, 128*1024)
	reader := NewReader(context.Background(), bytes.NewReader(data), NewLimiter(64*1024))

	start := time.Now()
	if _, err := io.Copy(io.Discard, reader); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 700*time.Millisecond {
		t.Errorf("copy took %v, expected throttling to about 1s", elapsed)
	}
}

func TestReaderContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewReader(ctx, strings.NewReader("data"), NewLimiter(1024))
	if _, err := reader.Read(make([]byte, 4)); !errors.Is(err, context.Canceled) {
		t.Errorf("Read() error = %v, want context.Canceled", err)
	}
}
