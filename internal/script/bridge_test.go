package script

import (
	"reflect"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
)

func TestToLua_Scalars(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tests := []struct {
		in   any
		want lua.LValue
	}{
		{nil, lua.LNil},
		{true, lua.LTrue},
		{42, lua.LNumber(42)},
		{int64(7), lua.LNumber(7)},
		{3.5, lua.LNumber(3.5)},
		{"hi", lua.LString("hi")},
	}
	for _, tt := range tests {
		if got := toLua(L, tt.in); got != tt.want {
			t.Errorf("toLua(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToLua_Time(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	got := toLua(L, ts)
	if got != lua.LString("2026-08-25T12:00:00Z") {
		t.Errorf("toLua(time) = %v", got)
	}
}

func TestToLua_Struct(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	type inner struct {
		Name  string `json:"name"`
		Count int
		skip  bool
	}
	got := toLua(L, inner{Name: "Borai", Count: 3, skip: true})
	tbl, ok := got.(*lua.LTable)
	if !ok {
		t.Fatalf("toLua(struct) = %T, want table", got)
	}
	if tbl.RawGetString("name") != lua.LString("Borai") {
		t.Errorf("name = %v", tbl.RawGetString("name"))
	}
	if tbl.RawGetString("Count") != lua.LNumber(3) {
		t.Errorf("Count = %v", tbl.RawGetString("Count"))
	}
	if tbl.RawGetString("skip") != lua.LNil {
		t.Error("unexported field leaked into the table")
	}
}

func TestToGo_Tables(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	arr := L.NewTable()
	arr.RawSetInt(1, lua.LString("a"))
	arr.RawSetInt(2, lua.LNumber(2))
	if got := toGo(arr); !reflect.DeepEqual(got, []any{"a", int64(2)}) {
		t.Errorf("toGo(array) = %#v", got)
	}

	m := L.NewTable()
	m.RawSetString("k", lua.LBool(true))
	if got := toGo(m); !reflect.DeepEqual(got, map[string]any{"k": true}) {
		t.Errorf("toGo(map) = %#v", got)
	}
}

func TestToGo_CircularTable(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tbl := L.NewTable()
	tbl.RawSetString("self", tbl)

	got, ok := toGo(tbl).(map[string]any)
	if !ok {
		t.Fatalf("toGo(circular) = %T, want map", got)
	}
	if got["self"] != nil {
		t.Errorf("self = %v, want nil at the cycle", got["self"])
	}
}
