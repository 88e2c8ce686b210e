package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidWeight, "weight %d out of range", 5)

	if err.Code != ErrCodeInvalidWeight {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidWeight)
	}
	if err.Message != "weight 5 out of range" {
		t.Errorf("Message = %q", err.Message)
	}
	if !strings.Contains(err.Error(), "INVALID_WEIGHT") {
		t.Errorf("Error() = %q, missing code", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := Wrap(ErrCodeInvalidRow, cause, "line %d", 7)

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause")
	}
	if !strings.Contains(err.Error(), "underlying") {
		t.Errorf("Error() = %q, missing cause", err.Error())
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return the cause")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeFileNotFound, "input file not found")

	if !Is(err, ErrCodeFileNotFound) {
		t.Error("Is() should match the code")
	}
	if Is(err, ErrCodeInvalidInput) {
		t.Error("Is() should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeFileNotFound) {
		t.Error("Is() should not match a plain error")
	}

	// Codes survive fmt.Errorf wrapping.
	wrapped := fmt.Errorf("load: %w", err)
	if !Is(wrapped, ErrCodeFileNotFound) {
		t.Error("Is() should unwrap to find the code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeGraph, "boom")); got != ErrCodeGraph {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeGraph)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() of plain error = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "missing required column: weight")
	if got := UserMessage(err); got != "missing required column: weight" {
		t.Errorf("UserMessage() = %q", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage() of plain error = %q", got)
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid relative", "assets/network.html", false},
		{"valid simple", "graph.json", false},
		{"empty", "", true},
		{"traversal", "../outside/file.svg", true},
		{"control chars", "bad\x00path", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateThemeTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr bool
	}{
		{"valid", "memory", false},
		{"valid with space", "civil war", false},
		{"empty", "", true},
		{"separator", "memory;exile", true},
		{"too long", strings.Repeat("x", 65), true},
		{"control chars", "bad\ttag", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThemeTag(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateThemeTag(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
		})
	}
}
