package procedure

import (
	"testing"

	"github.com/Spok95/labstock/internal/domain/formula"
)

func TestResolveSeedsInputsAndDefaults(t *testing.T) {
	def := &Definition{
		Inputs: []InputSpec{
			{Name: "n_sample", Kind: InputNumber, Default: 1},
			{Name: "n_qc", Kind: InputNumber, Default: 4},
			{Name: "with_blank", Kind: InputBoolean, Default: 1},
		},
	}
	ctx := Resolve(def, map[string]formula.Value{"n_sample": float64(2)})

	if got := ctx["n_sample"]; got != float64(2) {
		t.Errorf("n_sample = %v, want 2", got)
	}
	if got := ctx["n_qc"]; got != float64(4) {
		t.Errorf("n_qc default = %v, want 4", got)
	}
	if got := ctx["with_blank"]; got != true {
		t.Errorf("with_blank default = %v, want true", got)
	}
}

func TestResolveDerivedForwardReference(t *testing.T) {
	// b объявлена раньше a, но ссылается на a: второй проход добирает
	def := &Definition{
		Inputs: []InputSpec{{Name: "n", Kind: InputNumber, Default: 5}},
		Derived: []DerivedVar{
			{Name: "b", Formula: "a * 2"},
			{Name: "a", Formula: "n + 1"},
		},
	}
	ctx := Resolve(def, nil)

	if got := ctx["a"]; got != float64(6) {
		t.Errorf("a = %v, want 6", got)
	}
	if got := ctx["b"]; got != float64(12) {
		t.Errorf("b = %v, want 12", got)
	}
}

func TestResolveChainOfDerived(t *testing.T) {
	def := &Definition{
		Inputs: []InputSpec{{Name: "n", Kind: InputNumber, Default: 2}},
		Derived: []DerivedVar{
			{Name: "c", Formula: "b + 1"},
			{Name: "b", Formula: "a + 1"},
			{Name: "a", Formula: "n + 1"},
		},
	}
	ctx := Resolve(def, nil)

	// цепочка глубины 3 сходится за три прохода
	if got := ctx["c"]; got != float64(5) {
		t.Errorf("c = %v, want 5", got)
	}
}

func TestResolveBrokenFormulaIsZero(t *testing.T) {
	def := &Definition{
		Derived: []DerivedVar{
			{Name: "bad", Formula: "nonexistent * 2"},
			{Name: "ok", Formula: "bad + 7"},
		},
	}
	ctx := Resolve(def, nil)

	if got := ctx["bad"]; got != float64(0) {
		t.Errorf("bad = %v, want 0", got)
	}
	if got := ctx["ok"]; got != float64(7) {
		t.Errorf("ok = %v, want 7", got)
	}
}

func TestResolveIgnoresUnknownInputType(t *testing.T) {
	def := &Definition{
		Inputs: []InputSpec{{Name: "n", Kind: InputNumber, Default: 3}},
	}
	ctx := Resolve(def, map[string]formula.Value{"n": "oops"})

	if got := ctx["n"]; got != float64(3) {
		t.Errorf("n = %v, want default 3", got)
	}
}
