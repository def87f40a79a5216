package logger_test

import (
	"strings"
	"testing"

	"github.com/bsvec/virtualc64/logger"
)

func TestLogger(t *testing.T) {
	logger.Clear()

	var b strings.Builder
	logger.Write(&b)
	if b.String() != "" {
		t.Fatalf("expected empty log, got %q", b.String())
	}

	logger.Log("test", "this is a test")
	b.Reset()
	logger.Write(&b)
	if b.String() != "test: this is a test\n" {
		t.Fatalf("unexpected log contents: %q", b.String())
	}

	logger.Log("test2", "this is another test")
	b.Reset()
	logger.Write(&b)
	want := "test: this is a test\ntest2: this is another test\n"
	if b.String() != want {
		t.Fatalf("got %q, want %q", b.String(), want)
	}

	b.Reset()
	logger.Tail(&b, 1)
	if b.String() != "test2: this is another test\n" {
		t.Fatalf("unexpected tail: %q", b.String())
	}

	b.Reset()
	logger.Tail(&b, 0)
	if b.String() != "" {
		t.Fatalf("expected empty tail, got %q", b.String())
	}

	logger.Clear()
}
