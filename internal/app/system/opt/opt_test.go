package opt_test

import (
	"encoding/json"
	"testing"

	"github.com/dalemusser/coursehub/internal/app/system/opt"
)

type patch struct {
	Name     opt.Value[string] `json:"name"`
	Position opt.Value[int]    `json:"module_number"`
}

func TestValue_Unmarshal(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantNull    bool
		wantValue   int
		wantOK      bool
	}{
		{name: "absent", body: `{"name":"x"}`, wantPresent: false},
		{name: "explicit value", body: `{"module_number":2}`, wantPresent: true, wantValue: 2, wantOK: true},
		{name: "explicit zero", body: `{"module_number":0}`, wantPresent: true, wantValue: 0, wantOK: true},
		{name: "explicit null", body: `{"module_number":null}`, wantPresent: true, wantNull: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if p.Position.Present() != tt.wantPresent {
				t.Errorf("Present() = %v, want %v", p.Position.Present(), tt.wantPresent)
			}
			if p.Position.IsNull() != tt.wantNull {
				t.Errorf("IsNull() = %v, want %v", p.Position.IsNull(), tt.wantNull)
			}
			v, ok := p.Position.Get()
			if ok != tt.wantOK {
				t.Errorf("Get() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && v != tt.wantValue {
				t.Errorf("Get() value = %d, want %d", v, tt.wantValue)
			}
		})
	}
}

func TestValue_UnmarshalWrongType(t *testing.T) {
	var p patch
	if err := json.Unmarshal([]byte(`{"module_number":"two"}`), &p); err == nil {
		t.Fatal("expected error for string position")
	}
}

func TestValue_OrElse(t *testing.T) {
	if got := opt.None[int]().OrElse(7); got != 7 {
		t.Errorf("None.OrElse = %d, want 7", got)
	}
	if got := opt.Some(3).OrElse(7); got != 3 {
		t.Errorf("Some(3).OrElse = %d, want 3", got)
	}
}

func TestValue_Marshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A opt.Value[int] `json:"a"`
		B opt.Value[int] `json:"b"`
	}{A: opt.Some(4)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `{"a":4,"b":null}` {
		t.Errorf("Marshal = %s", out)
	}
}
