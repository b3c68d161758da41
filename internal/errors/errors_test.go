package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
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
			code:    "E100",
			wantMsg: "Configuration file not found",
			wantCat: CategoryConfig,
		},
		{
			name:    "storage error",
			code:    "E201",
			wantMsg: "Database migration failed",
			wantCat: CategoryStorage,
		},
		{
			name:    "binder error",
			code:    "E404",
			wantMsg: "Form already bound",
			wantCat: CategoryBinder,
		},
		{
			name:    "unknown error code",
			code:    "E999",
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
	err := Newf(CategoryInput, "offset %q out of range", "9999")
	if err.Message != `offset "9999" out of range` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryInput {
		t.Errorf("Category = %q, want %q", err.Category, CategoryInput)
	}
}

func TestAppError_Error(t *testing.T) {
	if got, want := New("E300").Error(), "E300: Invalid memo date"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := fmt.Errorf("bad month")
	if got, want := New("E300").Wrap(cause).Error(), "E300: Invalid memo date: bad month"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &AppError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestUnwrapAndIs(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := fmt.Errorf("opening store: %w", New("E200").Wrap(cause))

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !stderrors.Is(err, New("E200")) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New("E201")) {
		t.Error("errors.Is should not match a different code")
	}

	var ae *AppError
	if !stderrors.As(err, &ae) || ae.Code != "E200" {
		t.Errorf("errors.As = %v, want E200", ae)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New("E402"))
	if !HasCode(err, "E402") {
		t.Error("HasCode should see through fmt wrapping")
	}
	if HasCode(err, "E403") {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(nil, "E402") {
		t.Error("HasCode(nil) should be false")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E202") != nil {
		t.Error("FromError(nil) should be nil")
	}

	original := New("E201")
	if FromError(original, "E202") != original {
		t.Error("FromError should return AppErrors unchanged")
	}

	wrapped := FromError(stderrors.New("disk full"), "E202")
	if wrapped.Code != "E202" || wrapped.Wrapped == nil {
		t.Errorf("FromError = %+v", wrapped)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E201").
		Wrap(stderrors.New("permission denied")).
		WithSuggestion("Grant CREATE on the schema")

	out := err.Format()
	for _, want := range []string{
		"ERROR E201: Database migration failed",
		"The embedded schema migrations could not be applied.",
		"Cause: permission denied",
		"Hint: Grant CREATE on the schema",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E301").WithSuggestion("send minutes")

	var decoded map[string]string
	if jsonErr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jsonErr != nil {
		t.Fatalf("FormatJSON is not valid JSON: %v", jsonErr)
	}
	if decoded["code"] != "E301" || decoded["category"] != "input" || decoded["suggestion"] != "send minutes" {
		t.Errorf("FormatJSON = %v", decoded)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("PrintError = %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, New("E502"))
	if !strings.Contains(buf.String(), "E502: No snapshot found") {
		t.Errorf("PrintError = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven", 10)
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q longer than width", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six seven" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}

func TestCodesByCategory(t *testing.T) {
	codes := Codes(CategoryBackup)
	if len(codes) != 3 {
		t.Errorf("Codes(backup) = %v, want 3 codes", codes)
	}
	if _, ok := Lookup("E600"); !ok {
		t.Error("Lookup(E600) should exist")
	}
}
