package optional

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValueAccessors(t *testing.T) {
	some := Some(7)
	if v, ok := some.Get(); !ok || v != 7 {
		t.Fatalf("expected present 7, got %d (%v)", v, ok)
	}
	if some.IsZero() {
		t.Fatalf("present value must not report zero")
	}

	none := None[int]()
	if none.Present() {
		t.Fatalf("expected absent value")
	}
	if got := none.OrElse(3); got != 3 {
		t.Fatalf("expected fallback 3, got %d", got)
	}
}

func TestZeroIsPresentWhenSet(t *testing.T) {
	fee := Some(0)
	if !fee.Present() || fee.IsZero() {
		t.Fatalf("explicit zero must stay present")
	}
}

type envelope struct {
	Fee Value[int]    `json:"fee,omitzero" yaml:"fee,omitempty"`
	Key Value[string] `json:"key,omitzero" yaml:"key,omitempty"`
}

func TestEncodingOmitsAbsentFields(t *testing.T) {
	payload := envelope{Fee: Some(0)}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	if string(raw) != `{"fee":0}` {
		t.Fatalf("unexpected json: %s", raw)
	}

	out, err := yaml.Marshal(payload)
	if err != nil {
		t.Fatalf("yaml marshal: %v", err)
	}
	if string(out) != "fee: 0\n" {
		t.Fatalf("unexpected yaml: %q", out)
	}
}
