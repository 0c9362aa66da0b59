package units

import (
	"errors"
	"fmt"
	"strings"
)

// Dimension — физическая размерность единицы измерения.
type Dimension string

const (
	Mass   Dimension = "mass"
	Volume Dimension = "volume"
	Count  Dimension = "count"
)

var ErrIncompatible = errors.New("units: incompatible units")

type def struct {
	dim    Dimension
	toBase float64 // коэффициент к базовой единице размерности
}

// Базовые единицы: g (масса), ml (объём), pcs (счётные).
// Все счётные единицы взаимозаменяемы 1:1.
var table = map[string]def{
	// mass
	"ug": {Mass, 0.000001},
	"mg": {Mass, 0.001},
	"g":  {Mass, 1},
	"kg": {Mass, 1000},

	// volume
	"ul": {Volume, 0.001},
	"ml": {Volume, 1},
	"l":  {Volume, 1000},

	// count
	"pcs":  {Count, 1},
	"tube": {Count, 1},
	"box":  {Count, 1},
	"kit":  {Count, 1},
	"vial": {Count, 1},
	"pack": {Count, 1},
}

// Known сообщает, есть ли единица в таблице.
func Known(unit string) bool {
	_, ok := table[normalize(unit)]
	return ok
}

// DimensionOf возвращает размерность единицы.
func DimensionOf(unit string) (Dimension, bool) {
	d, ok := table[normalize(unit)]
	return d.dim, ok
}

// Convert переводит amount из from в to.
// Неизвестная единица или разные размерности — ErrIncompatible,
// никакого «тихого» 1:1: выбор fallback остаётся за вызывающим.
func Convert(amount float64, from, to string) (float64, error) {
	nf, nt := normalize(from), normalize(to)
	if nf == nt {
		return amount, nil
	}

	fd, ok := table[nf]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrIncompatible, from)
	}
	td, ok := table[nt]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrIncompatible, to)
	}
	if fd.dim != td.dim {
		return 0, fmt.Errorf("%w: %s (%s) -> %s (%s)", ErrIncompatible, from, fd.dim, to, td.dim)
	}

	return amount * fd.toBase / td.toBase, nil
}

func normalize(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	// допускаем µ из форм ввода
	u = strings.ReplaceAll(u, "µ", "u")
	return u
}
