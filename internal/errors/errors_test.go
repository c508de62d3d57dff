package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSyncError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *SyncError
		want string
	}{
		{
			name: "bare",
			err:  NewSyncError("nothing attached", nil),
			want: "sync error: nothing attached",
		},
		{
			name: "with cause",
			err:  NewSyncError("emitter declined", ErrMissingCollaborator),
			want: "sync error: emitter declined: missing collaborator",
		},
		{
			name: "with context",
			err: NewSyncError("handler declined", ErrMissingCollaborator).
				WithComponent("chart-a").
				WithSync("extremes").
				WithTable("t1"),
			want: "sync error [component=chart-a, sync=extremes, table=t1]: handler declined: missing collaborator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSyncError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewSyncError("stop", ErrDoubleTeardown))

	if !errors.Is(err, ErrDoubleTeardown) {
		t.Error("expected wrapped SyncError to match its cause")
	}
	if !errors.Is(err, &SyncError{}) {
		t.Error("expected wrapped SyncError to match the SyncError type")
	}
	if errors.Is(err, ErrTeardownLeak) {
		t.Error("did not expect a match on an unrelated sentinel")
	}

	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		t.Fatal("errors.As should find the SyncError")
	}
}

func TestGetSeverity(t *testing.T) {
	if got := GetSeverity(nil); got != SeverityDebug {
		t.Errorf("GetSeverity(nil) = %v, want debug", got)
	}
	if got := GetSeverity(New("plain")); got != SeverityError {
		t.Errorf("GetSeverity(plain) = %v, want error", got)
	}
	warn := NewSyncError("leak", ErrTeardownLeak).WithSeverity(SeverityWarning)
	if got := GetSeverity(fmt.Errorf("ctx: %w", warn)); got != SeverityWarning {
		t.Errorf("GetSeverity(wrapped) = %v, want warning", got)
	}
}

func TestIsExpected(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrMissingCollaborator, true},
		{ErrUnknownSyncName, true},
		{NewSyncError("stop", ErrDoubleTeardown), true},
		{ErrTeardownLeak, false},
		{ErrListenerPanic, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsExpected(tt.err); got != tt.want {
			t.Errorf("IsExpected(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
