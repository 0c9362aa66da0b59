package formula

import (
	"errors"
	"testing"
)

func num(t *testing.T, src string, vars map[string]Value) float64 {
	t.Helper()
	v, err := Eval(src, vars)
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	n, ok := v.(float64)
	if !ok {
		t.Fatalf("Eval(%q) = %T, want number", src, v)
	}
	return n
}

func boolean(t *testing.T, src string, vars map[string]Value) bool {
	t.Helper()
	v, err := Eval(src, vars)
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	b, ok := v.(bool)
	if !ok {
		t.Fatalf("Eval(%q) = %T, want bool", src, v)
	}
	return b
}

func TestEvalArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10/4", 2.5},
		{"10%4", 2},
		{"-3+5", 2},
		{"2*-3", -6},
		{"1.5+0.25", 1.75},
	}
	for _, c := range cases {
		if got := num(t, c.src, nil); got != c.want {
			t.Errorf("Eval(%q) = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestEvalVariables(t *testing.T) {
	vars := map[string]Value{"n_sample": float64(2), "n_qc": float64(8)}
	if got := num(t, "n_sample + n_qc", vars); got != 10 {
		t.Errorf("got %v, want 10", got)
	}
}

func TestEvalComparisonsAndLogic(t *testing.T) {
	vars := map[string]Value{"n": float64(5), "flag": true}
	cases := []struct {
		src  string
		want bool
	}{
		{"n > 3", true},
		{"n <= 4", false},
		{"n == 5", true},
		{"n != 5", false},
		{"n > 3 && n < 10", true},
		{"n > 10 || flag", true},
		{"!flag", false},
		{"flag == true", true},
	}
	for _, c := range cases {
		if got := boolean(t, c.src, vars); got != c.want {
			t.Errorf("Eval(%q) = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestEvalTernary(t *testing.T) {
	vars := map[string]Value{"n": float64(12)}
	if got := num(t, "n > 10 ? n * 2 : n", vars); got != 24 {
		t.Errorf("got %v, want 24", got)
	}
	// числовое условие трактуется как truthy
	if got := num(t, "0 ? 1 : 2", nil); got != 2 {
		t.Errorf("got %v, want 2", got)
	}
}

func TestEvalHelpers(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"min(3, 1, 2)", 1},
		{"max(3, 1, 2)", 3},
		{"round(2.5)", 3},
		{"round(2.4)", 2},
		{"abs(0-7)", 7},
		{"min(10, max(2, 5))", 5},
	}
	for _, c := range cases {
		if got := num(t, c.src, nil); got != c.want {
			t.Errorf("Eval(%q) = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestEvalEmptyIsZero(t *testing.T) {
	if got := num(t, "", nil); got != 0 {
		t.Errorf("empty formula = %v, want 0", got)
	}
	if got := num(t, "   ", nil); got != 0 {
		t.Errorf("blank formula = %v, want 0", got)
	}
}

func TestEvalFailures(t *testing.T) {
	cases := []string{
		"no_such_var + 1",
		"1 / 0",          // non-finite
		"2 +",            // обрыв
		"foo(1)",         // неизвестная функция
		"min()",          // нет аргументов
		"true + 1",       // тип
		"2 @ 3",          // мусорный символ
		"(1 + 2",         // незакрытая скобка
		"system('rm')",   // строк в грамматике нет
	}
	vars := map[string]Value{"true": true}
	for _, src := range cases {
		if _, err := Eval(src, vars); !errors.Is(err, ErrEval) {
			t.Errorf("Eval(%q): err = %v, want ErrEval", src, err)
		}
	}
}

func TestEvalSandboxSeesOnlyContext(t *testing.T) {
	// переменная есть только если явно передана
	if _, err := Eval("x", nil); err == nil {
		t.Fatal("unbound variable must fail")
	}
	if got := num(t, "x", map[string]Value{"x": float64(4)}); got != 4 {
		t.Errorf("got %v, want 4", got)
	}
}

func TestEvalNumberCoercesBool(t *testing.T) {
	got, err := EvalNumber("2 > 1", nil)
	if err != nil {
		t.Fatalf("EvalNumber: %v", err)
	}
	if got != 1 {
		t.Errorf("got %v, want 1", got)
	}
}
