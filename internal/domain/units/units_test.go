package units

import (
	"errors"
	"math"
	"testing"
)

func TestConvertMass(t *testing.T) {
	got, err := Convert(2.5, "kg", "g")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != 2500 {
		t.Errorf("2.5 kg = %v g, want 2500", got)
	}

	got, err = Convert(500, "mg", "g")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != 0.5 {
		t.Errorf("500 mg = %v g, want 0.5", got)
	}
}

func TestConvertVolume(t *testing.T) {
	got, err := Convert(1.5, "l", "ml")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != 1500 {
		t.Errorf("1.5 l = %v ml, want 1500", got)
	}
}

func TestConvertCountUnitsInterchangeable(t *testing.T) {
	got, err := Convert(7, "tube", "pcs")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != 7 {
		t.Errorf("7 tube = %v pcs, want 7", got)
	}
}

func TestConvertSameUnitCaseInsensitive(t *testing.T) {
	// одинаковые единицы не требуют наличия в таблице
	got, err := Convert(3, "Flask", "flask")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != 3 {
		t.Errorf("got %v, want 3", got)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	cases := []struct {
		amount   float64
		from, to string
	}{
		{123.456, "g", "kg"},
		{0.77, "l", "ul"},
		{42, "mg", "ug"},
		{9, "box", "kit"},
	}
	for _, c := range cases {
		there, err := Convert(c.amount, c.from, c.to)
		if err != nil {
			t.Fatalf("Convert(%v, %s, %s): %v", c.amount, c.from, c.to, err)
		}
		back, err := Convert(there, c.to, c.from)
		if err != nil {
			t.Fatalf("Convert back: %v", err)
		}
		if math.Abs(back-c.amount) > 1e-9 {
			t.Errorf("round trip %s<->%s: got %v, want %v", c.from, c.to, back, c.amount)
		}
	}
}

func TestConvertCrossDimensionFails(t *testing.T) {
	if _, err := Convert(1, "g", "ml"); !errors.Is(err, ErrIncompatible) {
		t.Errorf("g->ml: err = %v, want ErrIncompatible", err)
	}
	if _, err := Convert(1, "pcs", "l"); !errors.Is(err, ErrIncompatible) {
		t.Errorf("pcs->l: err = %v, want ErrIncompatible", err)
	}
}

func TestConvertUnknownUnitFails(t *testing.T) {
	if _, err := Convert(1, "parsec", "g"); !errors.Is(err, ErrIncompatible) {
		t.Errorf("unknown from: err = %v, want ErrIncompatible", err)
	}
	if _, err := Convert(1, "g", "parsec"); !errors.Is(err, ErrIncompatible) {
		t.Errorf("unknown to: err = %v, want ErrIncompatible", err)
	}
}

func TestDimensionOf(t *testing.T) {
	if d, ok := DimensionOf("KG"); !ok || d != Mass {
		t.Errorf("DimensionOf(KG) = %v, %v", d, ok)
	}
	if _, ok := DimensionOf("parsec"); ok {
		t.Error("DimensionOf(parsec) should be unknown")
	}
}
