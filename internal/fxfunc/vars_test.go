package fxfunc

import (
	"testing"

	"filterx/internal/fxeval"
	"filterx/internal/fxexpr"
	"filterx/internal/fxobject"
	"filterx/internal/fxvar"
)

type fakeMessageStore struct {
	names  map[string]uint32
	values map[uint32][]byte
	types  map[uint32]string
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{names: make(map[string]uint32), values: make(map[uint32][]byte), types: make(map[uint32]string)}
}

func (s *fakeMessageStore) RegisterName(name string) uint32 {
	if h, ok := s.names[name]; ok {
		return h
	}
	h := uint32(len(s.names) + 1)
	s.names[name] = h
	return h
}

func (s *fakeMessageStore) GetValue(handle uint32) ([]byte, string, bool) {
	v, ok := s.values[handle]
	return v, s.types[handle], ok
}

func (s *fakeMessageStore) SetValue(handle uint32, raw []byte, logType string) {
	s.values[handle] = raw
	s.types[handle] = logType
}

func TestVarsBuildsDictFromLiveVariables(t *testing.T) {
	dir := fxvar.NewDirectory()
	store := newFakeMessageStore()
	ctx := fxeval.NewContext([]fxeval.Message{store}, nil, 4)
	ctx.Dir = dir

	ctx.Vars.Get(dir.InternFloating("x")).Assign(fxobject.NewInteger(5))
	msgHandle := dir.InternMessageTied("user", store.RegisterName("user"))
	ctx.Vars.Get(msgHandle).Assign(fxobject.NewString("alice"))

	fn := NewVars("vars", nil)
	if err := fn.Init(nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer fn.Deinit(nil)
	defer fn.Free()

	v, err := fn.Eval(ctx)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	defer v.Unref()

	dict, ok := v.(*fxobject.Dict)
	if !ok {
		t.Fatalf("expected *Dict, got %#v", v)
	}

	xv, err := dict.GetSubscript(fxobject.NewString("x"))
	if err != nil {
		t.Fatalf("missing key \"x\": %v", err)
	}
	defer xv.Unref()
	if i, ok := xv.(*fxobject.Integer); !ok || i.Value != 5 {
		t.Errorf("vars()[\"x\"] = %#v, want 5", xv)
	}

	uv, err := dict.GetSubscript(fxobject.NewString("$user"))
	if err != nil {
		t.Fatalf("missing key \"$user\": %v", err)
	}
	defer uv.Unref()
	if s, ok := uv.(*fxobject.String); !ok || s.Value != "alice" {
		t.Errorf("vars()[\"$user\"] = %#v, want \"alice\"", uv)
	}
}

func TestVarsRejectsArguments(t *testing.T) {
	fn := NewVars("vars", []fxexpr.Expr{litStr("x")})
	if err := fn.Init(nil); err == nil {
		t.Errorf("expected an error, vars() takes no arguments")
	}
}

func TestLoadVarsRegistersFloatingAndMessageTiedVariables(t *testing.T) {
	dir := fxvar.NewDirectory()
	store := newFakeMessageStore()
	ctx := fxeval.NewContext([]fxeval.Message{store}, nil, 4)
	ctx.Dir = dir

	payload := fxobject.NewDict()
	countVal := fxobject.Object(fxobject.NewInteger(3))
	payload.SetSubscript(fxobject.NewString("count"), &countVal)
	userVal := fxobject.Object(fxobject.NewString("bob"))
	payload.SetSubscript(fxobject.NewString("$user"), &userVal)

	fn := NewLoadVars("load_vars", []fxexpr.Expr{fxexpr.NewLiteral("lit", payload)})
	if err := fn.Init(nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer fn.Deinit(nil)
	defer fn.Free()

	v, err := fn.Eval(ctx)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	defer v.Unref()
	if b, ok := v.(*fxobject.Boolean); !ok || !b.Value {
		t.Errorf("load_vars should return true on success, got %#v", v)
	}

	countHandle, ok := dir.LookupFloating("count")
	if !ok {
		t.Fatalf("load_vars did not intern \"count\" as a floating variable")
	}
	countSlot := ctx.Vars.Get(countHandle)
	if !countSlot.Live() || countSlot.Value().(*fxobject.Integer).Value != 3 {
		t.Errorf("\"count\" was not registered with value 3")
	}

	userHandle, ok := dir.LookupMessageTied("user")
	if !ok {
		t.Fatalf("load_vars did not intern \"user\" as a message-tied variable")
	}
	userSlot := ctx.Vars.Get(userHandle)
	if !userSlot.Live() || userSlot.Value().(*fxobject.String).Value != "bob" {
		t.Errorf("\"$user\" was not registered with value \"bob\"")
	}
}

func TestLoadVarsRejectsNonDictArgument(t *testing.T) {
	dir := fxvar.NewDirectory()
	store := newFakeMessageStore()
	ctx := fxeval.NewContext([]fxeval.Message{store}, nil, 4)
	ctx.Dir = dir

	fn := NewLoadVars("load_vars", []fxexpr.Expr{litStr("not a dict")})
	if err := fn.Init(nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer fn.Deinit(nil)
	defer fn.Free()

	if _, err := fn.Eval(ctx); err == nil {
		t.Errorf("expected an error for a non-dict argument")
	}
}
