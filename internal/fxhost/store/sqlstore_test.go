package store

import "testing"

func TestSQLiteStoreRegisterGetSet(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	h := s.RegisterName("MESSAGE")
	if h == 0 {
		t.Fatalf("expected a non-zero handle")
	}
	if h2 := s.RegisterName("MESSAGE"); h2 != h {
		t.Errorf("expected RegisterName to be idempotent, got %d then %d", h, h2)
	}

	if _, _, ok := s.GetValue(h); ok {
		t.Errorf("expected a freshly registered field to have no value yet")
	}

	s.SetValue(h, []byte("hello"), "string")
	raw, logType, ok := s.GetValue(h)
	if !ok || string(raw) != "hello" || logType != "string" {
		t.Errorf("got (%q, %q, %v), want (\"hello\", \"string\", true)", raw, logType, ok)
	}
}

func TestPlaceholderStyles(t *testing.T) {
	if got := questionPlaceholder(3); got != "?" {
		t.Errorf("questionPlaceholder(3) = %q, want \"?\"", got)
	}
	if got := dollarPlaceholder(3); got != "$3" {
		t.Errorf("dollarPlaceholder(3) = %q, want \"$3\"", got)
	}
}

func TestSQLiteStoreHandleNeverSetsFloatingBit(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	for i := 0; i < 8; i++ {
		h := s.RegisterName(string(rune('a' + i)))
		if h&0x80000000 != 0 {
			t.Fatalf("handle %d unexpectedly has the floating bit set", h)
		}
	}
}
