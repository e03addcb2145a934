package diag

import (
	"bytes"
	"testing"

	"github.com/tangzhangming/riva/internal/token"
)

func TestReportFormat(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	r.Report(3, " at 'x'", "Some message.")

	if got := out.String(); got != "[line 3] ERROR at 'x': Some message.\n" {
		t.Errorf("format mismatch: got %q", got)
	}
	if !r.HadError() {
		t.Error("hadError must be set")
	}
}

func TestErrorWhereForms(t *testing.T) {
	tests := []struct {
		tok      token.Token
		expected string
	}{
		{
			token.New(token.IDENT, "foo", token.Position{Line: 2}),
			"[line 2] ERROR at 'foo': msg\n",
		},
		{
			token.Token{Type: token.EOF, Pos: token.Position{Line: 5}},
			"[line 5] ERROR at end: msg\n",
		},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		r := NewReporter(&out)
		r.Error(tt.tok, "msg")
		if got := out.String(); got != tt.expected {
			t.Errorf("got %q, want %q", got, tt.expected)
		}
	}
}

func TestErrorAtEmptyWhere(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	r.ErrorAt(7, "Unexpected character.")

	if got := out.String(); got != "[line 7] ERROR: Unexpected character.\n" {
		t.Errorf("got %q", got)
	}
}

func TestWarnDoesNotSetHadError(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	tok := token.New(token.IDENT, "unused", token.Position{Line: 1})
	r.Warn(tok, "Unused variable.")

	if r.HadError() {
		t.Error("warnings must not set hadError")
	}
	if out.Len() == 0 {
		t.Error("warning must still be printed")
	}

	// 已置位的 hadError 不被警告清除
	r.ErrorAt(1, "real error")
	r.Warn(tok, "Unused variable.")
	if !r.HadError() {
		t.Error("warning must not clear an existing hadError")
	}
}

func TestRuntimeSetsRuntimeFlag(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	r.Runtime(4, "Division by zero")

	if got := out.String(); got != "[line 4] ERROR: Division by zero\n" {
		t.Errorf("got %q", got)
	}
	if !r.HadRuntimeError() {
		t.Error("hadRuntimeError must be set")
	}
	if r.HadError() {
		t.Error("runtime errors must not set hadError")
	}
}

func TestReset(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out)

	r.ErrorAt(1, "e")
	r.Runtime(1, "r")
	r.Reset()

	if r.HadError() || r.HadRuntimeError() {
		t.Error("Reset must clear both flags")
	}
}
