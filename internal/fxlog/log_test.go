package fxlog

import "testing"

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"trace": TRACE,
		"DEBUG": DEBUG,
		"Info":  INFO,
		"warn":  WARN,
		"error": ERROR,
		"huh":   NONE,
	}
	for s, want := range cases {
		if got := ParseLevel(s); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestLogBelowLevelIsSuppressed(t *testing.T) {
	l := &Logger{level: WARN}
	// logf() below the configured level must return without touching
	// l.out, which is nil here — a panic means the level check failed.
	l.logf(DEBUG, "should not reach the nil writer")
}

func TestTraceEntryString(t *testing.T) {
	ok := TraceEntry{Location: "loc", Kind: "literal", EvalCount: 3, Result: "42"}
	if got := ok.String(); got != "literal@loc #3 -> 42" {
		t.Errorf("got %q", got)
	}

	failed := TraceEntry{Location: "loc", Kind: "func:startswith", EvalCount: 1, Err: errTest}
	if got := failed.String(); got == "" || got == ok.String() {
		t.Errorf("expected a distinct error rendering, got %q", got)
	}
}

func TestEvalTraceWithNilLoggerDoesNotPanic(t *testing.T) {
	saved := L
	L = nil
	defer func() { L = saved }()
	EvalTrace(TraceEntry{Kind: "literal"})
}

var errTest = fmtError("boom")

type fmtError string

func (e fmtError) Error() string { return string(e) }
