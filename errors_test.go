package sdk

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestSDKErrorMessage(t *testing.T) {
	err := NewScanError("Engine.ScanProject", errors.New("read failed"))
	msg := err.Error()
	for _, want := range []string{"Engine.ScanProject", "scan", "read failed"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestSDKErrorUnwrap(t *testing.T) {
	underlying := errors.New("boom")
	err := NewPersistenceError("Engine.SaveContext", underlying)
	if !errors.Is(err, underlying) {
		t.Error("errors.Is should reach the underlying error")
	}

	var sdkErr *SDKError
	if !errors.As(err, &sdkErr) || sdkErr.Kind != KindPersistence {
		t.Errorf("errors.As failed: %#v", err)
	}
}

func TestSDKErrorIsMatchesKind(t *testing.T) {
	err := NewValidationError("Engine.SaveContext", ErrValidationFailed)

	if !errors.Is(err, &SDKError{Kind: KindValidation}) {
		t.Error("errors.Is should match on kind alone")
	}
	if !errors.Is(err, &SDKError{Kind: KindValidation, Op: "Engine.SaveContext"}) {
		t.Error("errors.Is should match on kind and op")
	}
	if errors.Is(err, &SDKError{Kind: KindScan}) {
		t.Error("errors.Is must not match a different kind")
	}
	if errors.Is(err, &SDKError{Kind: KindValidation, Op: "Engine.Other"}) {
		t.Error("errors.Is must not match a different op")
	}
}

func TestSDKErrorWithContext(t *testing.T) {
	base := NewValidationError("Engine.SaveContext", ErrValidationFailed)
	enriched := base.WithContext(map[string]any{"errors": 3})

	if base.Context != nil {
		t.Error("WithContext must not mutate the original error")
	}
	if enriched.Context["errors"] != 3 {
		t.Errorf("Context = %+v", enriched.Context)
	}
	if !strings.Contains(enriched.Error(), "errors:3") {
		t.Errorf("Error() = %q, want the context rendered", enriched.Error())
	}
	if !errors.Is(enriched, ErrValidationFailed) {
		t.Error("wrapping must survive WithContext")
	}
}

type failingCloser struct{ closed bool }

func (f *failingCloser) Close() error {
	f.closed = true
	return errors.New("close failed")
}

func TestCloseWithLog(t *testing.T) {
	// Nil closers are ignored.
	CloseWithLog(nil, slog.Default(), "nothing")

	c := &failingCloser{}
	CloseWithLog(c, nil, "resource")
	if !c.closed {
		t.Error("Close should have been called")
	}
}
