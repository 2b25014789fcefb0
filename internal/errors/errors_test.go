package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
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
			name:    "config error",
			code:    "F104",
			wantMsg: "Invalid placement",
			wantCat: CategoryConfig,
		},
		{
			name:    "scenario error",
			code:    "F203",
			wantMsg: "Expectation failed",
			wantCat: CategoryScenario,
		},
		{
			name:    "server error",
			code:    "F301",
			wantMsg: "Server failed to start",
			wantCat: CategoryServer,
		},
		{
			name:    "unknown error code",
			code:    "F999",
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
	err := Newf(CategoryScenario, "element %q not found", "menu")
	if err.Message != `element "menu" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `element "menu" not found`)
	}
	if err.Category != CategoryScenario {
		t.Errorf("Category = %q, want %q", err.Category, CategoryScenario)
	}
}

func TestError_Error(t *testing.T) {
	err := New("F101")
	if got, want := err.Error(), "F101: Config file not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = New("F101").Wrap(os.ErrNotExist)
	if got, want := err.Error(), "F101: Config file not found: file does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestError_WithLocation(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "scenario.yaml")
	content := `name: menu
widgets:
  - name: menu
    kind: popover
    placement: upward
steps:
  - click: menu.trigger
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("F104").WithLocation(tmpFile, 5, 16)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.File != tmpFile {
		t.Errorf("Location.File = %q, want %q", err.Location.File, tmpFile)
	}
	if err.Location.Line != 5 || err.Location.Column != 16 {
		t.Errorf("Location = %d:%d, want 5:16", err.Location.Line, err.Location.Column)
	}
	if len(err.Context) != 5 {
		t.Fatalf("Context has %d lines, want 5", len(err.Context))
	}
	if err.Context[2] != "    placement: upward" {
		t.Errorf("Context[2] = %q", err.Context[2])
	}
}

func TestError_WithLocationMissingFile(t *testing.T) {
	err := New("F104").WithLocation("does-not-exist.yaml", 3, 1)
	if err.Context != nil {
		t.Errorf("Context = %v, want nil", err.Context)
	}
}

func TestError_Builders(t *testing.T) {
	err := New("F105").
		WithSuggestion("use a positive delay").
		WithDetailf("openDelay is %s", "-1s")
	if err.Suggestion != "use a positive delay" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
	if err.Detail != "openDelay is -1s" {
		t.Errorf("Detail = %q", err.Detail)
	}

	err.WithDetail("custom").WithContext([]string{"a"})
	if err.Detail != "custom" || len(err.Context) != 1 {
		t.Errorf("Detail = %q, Context = %v", err.Detail, err.Context)
	}
}

func TestError_Wrap(t *testing.T) {
	inner := New("F102")
	outer := New("F101").Wrap(inner)

	if outer.Wrapped != inner {
		t.Error("Wrapped error mismatch")
	}
	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "F101") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	fe := New("F101")
	if FromError(fe, "F102") != fe {
		t.Error("FromError should return *Error as-is")
	}
	if FromError(fmt.Errorf("loading: %w", fe), "F102") != fe {
		t.Error("FromError should unwrap to the *Error")
	}

	stdErr := &testError{msg: "test error"}
	result := FromError(stdErr, "F102")
	if result.Wrapped != stdErr {
		t.Error("Standard error should be wrapped")
	}
	if result.Code != "F102" {
		t.Errorf("Code = %q, want F102", result.Code)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("run: %w", New("F203"))
	if !HasCode(err, "F203") {
		t.Error("HasCode should see through wrapping")
	}
	if HasCode(err, "F201") {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(&testError{msg: "x"}, "F203") {
		t.Error("HasCode matched a plain error")
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{
			name: "nil location",
			loc:  nil,
			want: "",
		},
		{
			name: "with column",
			loc:  &Location{File: "a.yaml", Line: 10, Column: 5},
			want: "a.yaml:10:5",
		},
		{
			name: "without column",
			loc:  &Location{File: "a.yaml", Line: 10, Column: 0},
			want: "a.yaml:10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.loc.String()
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "scenario.yaml")
	content := `widgets:
  - name: menu
    kind: popover
    placement: upward
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("F104").
		WithLocation(tmpFile, 4, 16).
		WithSuggestion("use bottom-start").
		Wrap(fmt.Errorf("unknown placement"))

	formatted := err.Format()

	for _, want := range []string{"F104", "Invalid placement", tmpFile, "→", "^", "Hint: use bottom-start", "Caused by: unknown placement"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("F104").WithLocation("a.yaml", 10, 5)
	compact := err.FormatCompact()

	want := "a.yaml:10:5: F104: Invalid placement"
	if compact != want {
		t.Errorf("FormatCompact() = %q, want %q", compact, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("F104").WithLocation("a.yaml", 10, 5).Wrap(fmt.Errorf("bad"))
	json := err.FormatJSON()

	for _, want := range []string{`"code":"F104"`, `"category":"config"`, `"message":"Invalid placement"`, `"location":`, `"cause":"bad"`} {
		if !strings.Contains(json, want) {
			t.Errorf("FormatJSON() missing %s: %s", want, json)
		}
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() should return codes")
	}
	for _, code := range codes {
		if !strings.HasPrefix(code, "F") || len(code) != 4 {
			t.Errorf("malformed code %q", code)
		}
	}
}

func TestGetTemplate(t *testing.T) {
	template, ok := GetTemplate("F201")
	if !ok {
		t.Fatal("F201 should exist")
	}
	if template.Message != "Unknown element" {
		t.Errorf("Template message = %q", template.Message)
	}

	if _, ok := GetTemplate("F999"); ok {
		t.Error("F999 should not exist")
	}
}

func TestRegister(t *testing.T) {
	Register("F999", ErrorTemplate{
		Category: CategoryCLI,
		Message:  "Custom test error",
		Detail:   "This is a test error",
	})
	defer delete(registry, "F999")

	err := New("F999")
	if err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	got = wrapText("", 10)
	if len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, New("F311").WithDetail("1 of 2 scenarios failed"))
	if !strings.Contains(b.String(), "ERROR F311: Scenarios failed") || !strings.Contains(b.String(), "1 of 2 scenarios failed") {
		t.Errorf("Fprint() coded error:\n%s", b.String())
	}

	b.Reset()
	Fprint(&b, fmt.Errorf("plain"))
	if got := b.String(); got != "\nERROR: plain\n\n" {
		t.Errorf("Fprint() plain error = %q", got)
	}
}
