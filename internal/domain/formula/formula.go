package formula

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Value — результат вычисления формулы: float64 или bool.
type Value any

var ErrEval = errors.New("formula: evaluation failed")

// Eval вычисляет формулу в песочнице: видны только переменные из vars
// и встроенные функции min/max/round/abs. Любая ошибка разбора или
// вычисления возвращается как error (обёртка над ErrEval), паник нет.
// Пустая формула — это 0.
func Eval(src string, vars map[string]Value) (Value, error) {
	if strings.TrimSpace(src) == "" {
		return float64(0), nil
	}

	toks, err := lex(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEval, err)
	}

	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEval, err)
	}
	if !p.eof() {
		return nil, fmt.Errorf("%w: unexpected %q", ErrEval, p.peek().text)
	}

	v, err := root.eval(vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEval, err)
	}
	return v, nil
}

// EvalNumber — как Eval, но приводит результат к числу (true=1, false=0).
func EvalNumber(src string, vars map[string]Value) (float64, error) {
	v, err := Eval(src, vars)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: unexpected value %T", ErrEval, v)
}

// Truthy трактует значение как условие: bool — как есть, число — != 0.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	}
	return false
}

func asNumber(v Value) (float64, error) {
	n, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("number expected, got %T", v)
	}
	return n, nil
}

func finite(n float64) (float64, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("non-finite result")
	}
	return n, nil
}
