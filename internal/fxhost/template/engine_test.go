package template

import (
	"bytes"
	"testing"

	"filterx/internal/fxhost"
)

type fakeStore struct {
	names  map[string]uint32
	values map[uint32][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{names: make(map[string]uint32), values: make(map[uint32][]byte)}
}

func (s *fakeStore) RegisterName(name string) uint32 {
	if h, ok := s.names[name]; ok {
		return h
	}
	h := uint32(len(s.names) + 1)
	s.names[name] = h
	return h
}

func (s *fakeStore) GetValue(handle uint32) ([]byte, string, bool) {
	v, ok := s.values[handle]
	return v, "string", ok
}

func (s *fakeStore) SetValue(handle uint32, raw []byte, logType string) {
	s.values[handle] = raw
}

func TestFormatValueAndTypeInfersInteger(t *testing.T) {
	store := newFakeStore()
	store.SetValue(store.RegisterName("COUNT"), []byte("42"), "string")

	var out bytes.Buffer
	typeTag, err := NewEngine().FormatValueAndType(`{{field "COUNT"}}`, []fxhost.MessageStore{store}, nil, &out)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if out.String() != "42" {
		t.Errorf("got %q, want %q", out.String(), "42")
	}
	if typeTag != "integer" {
		t.Errorf("got type %q, want integer", typeTag)
	}
}

func TestFormatValueAndTypeFallsBackToString(t *testing.T) {
	store := newFakeStore()
	store.SetValue(store.RegisterName("HOST"), []byte("example.com"), "string")

	var out bytes.Buffer
	typeTag, err := NewEngine().FormatValueAndType(`host={{field "HOST"}}`, []fxhost.MessageStore{store}, nil, &out)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if out.String() != "host=example.com" {
		t.Errorf("got %q", out.String())
	}
	if typeTag != "string" {
		t.Errorf("got type %q, want string", typeTag)
	}
}
