package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "route not found",
			code:    "R100",
			wantMsg: "Route not found",
			wantCat: CategoryRouting,
		},
		{
			name:    "view fetch failed",
			code:    "R101",
			wantMsg: "View fetch failed",
			wantCat: CategoryFetch,
		},
		{
			name:    "lifecycle hook failed",
			code:    "R102",
			wantMsg: "Controller lifecycle hook failed",
			wantCat: CategoryLifecycle,
		},
		{
			name:    "unknown error code",
			code:    "R999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryRouting, "path %q rejected", "/bad")
	if err.Message != `path "/bad" rejected` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Code != "" {
		t.Errorf("Code should be empty, got %q", err.Code)
	}
}

func TestErrorString(t *testing.T) {
	err := New("R100")
	if got := err.Error(); got != "R100: Route not found" {
		t.Errorf("Error() = %q", got)
	}

	err = Newf(CategoryFetch, "plain message")
	if got := err.Error(); got != "plain message" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	inner := stderrors.New("connection refused")
	err := New("R101").Wrap(inner)

	if !stderrors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}

	var se *SkiffError
	if !stderrors.As(err, &se) {
		t.Error("errors.As should find the SkiffError")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "R101") != nil {
		t.Error("FromError(nil) should be nil")
	}

	inner := stderrors.New("boom")
	err := FromError(inner, "R101")
	if err.Code != "R101" {
		t.Errorf("Code = %q, want R101", err.Code)
	}
	if err.Wrapped != inner {
		t.Error("wrapped error not preserved")
	}

	// A SkiffError passes through untouched.
	again := FromError(err, "R100")
	if again != err {
		t.Error("FromError should return an existing SkiffError unchanged")
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(New("R102")) != "R102" {
		t.Error("CodeOf should return the error code")
	}
	if CodeOf(stderrors.New("plain")) != "" {
		t.Error("CodeOf of a plain error should be empty")
	}
	if CodeOf(nil) != "" {
		t.Error("CodeOf(nil) should be empty")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("R100").WithDetail("path: /missing")
	got := err.FormatCompact()
	if !strings.Contains(got, "R100") || !strings.Contains(got, "/missing") {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestFormatNoColors(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("R101").WithSuggestion("check the view path")
	got := err.Format()
	if strings.Contains(got, "\033[") {
		t.Error("Format() should not contain ANSI codes when colors are disabled")
	}
	if !strings.Contains(got, "Hint: check the view path") {
		t.Errorf("Format() missing suggestion: %q", got)
	}
}

func TestRegistryLookups(t *testing.T) {
	if _, ok := GetTemplate("R100"); !ok {
		t.Error("R100 should be registered")
	}
	if _, ok := GetTemplate("nope"); ok {
		t.Error("unregistered code should not resolve")
	}
	if len(GetAllCodes()) == 0 {
		t.Error("registry should not be empty")
	}
}
