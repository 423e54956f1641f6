package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "new",
			err:  New(ErrCodeInvalidConfig, "series %q has no values", "north"),
			want: `INVALID_CONFIG: series "north" has no values`,
		},
		{
			name: "wrapped",
			err:  Wrap(ErrCodeInternal, errors.New("disk full"), "render %s", "png"),
			want: "INTERNAL_ERROR: render png: disk full",
		},
		{
			name: "contract",
			err:  Contract("no stacker for group %q", "plan"),
			want: `CONTRACT_VIOLATION: no stacker for group "plan"`,
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

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNotFound, cause, "load frame %s", "frame:abc")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIsAndGetCode(t *testing.T) {
	pass := Contract("group %q changed mid-pass", "")
	tests := []struct {
		name     string
		err      error
		code     Code
		wantIs   bool
		wantCode Code
	}{
		{"direct", New(ErrCodeInvalidEasing, "bogus"), ErrCodeInvalidEasing, true, ErrCodeInvalidEasing},
		{"other code", New(ErrCodeInvalidEasing, "bogus"), ErrCodeContract, false, ErrCodeInvalidEasing},
		{"fmt wrapped", fmt.Errorf("measure: %w", pass), ErrCodeContract, true, ErrCodeContract},
		{"outer code wins", Wrap(ErrCodeInternal, pass, "update"), ErrCodeInternal, true, ErrCodeInternal},
		{"plain", errors.New("plain"), ErrCodeInvalidInput, false, ""},
		{"nil", nil, ErrCodeInvalidInput, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.wantIs {
				t.Errorf("Is() = %v, want %v", got, tt.wantIs)
			}
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestCodeIsInvalid(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeInvalidInput, true},
		{ErrCodeInvalidConfig, true},
		{ErrCodeInvalidFormat, true},
		{ErrCodeInvalidEasing, true},
		{ErrCodeInvalidLabelPosition, true},
		{ErrCodeContract, false},
		{ErrCodeNotFound, false},
		{ErrCodeInternal, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.code.IsInvalid(); got != tt.want {
			t.Errorf("%q.IsInvalid() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidFormat, "unsupported format %q", "pdf"), `unsupported format "pdf"`},
		{"wrapped coded", fmt.Errorf("render: %w", New(ErrCodeInvalidInput, "scale must be positive")), "scale must be positive"},
		{"plain", errors.New("plain error"), "plain error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
