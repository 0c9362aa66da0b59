package procedure

import "testing"

func TestAnalyzeCapacityBottleneck(t *testing.T) {
	snap := Snapshot{
		"a": {MaterialID: 1, Stock: 100, Unit: "ml"},
		"b": {MaterialID: 2, Stock: 50, Unit: "g"},
	}
	def := &Definition{
		Lines: []MaterialLine{
			{Material: "A", Formula: "10", Unit: "ml", Kind: LineSimple},
			{Material: "B", Formula: "5", Unit: "g", Kind: LineSimple},
		},
	}
	rep := AnalyzeCapacity(def, nil, snap)

	if rep.MaxBatches != 10 {
		t.Errorf("MaxBatches = %d, want 10", rep.MaxBatches)
	}
	// при равенстве остаётся первый встреченный
	if rep.Limiting != "A" {
		t.Errorf("Limiting = %q, want A", rep.Limiting)
	}
	if len(rep.Details) != 2 {
		t.Errorf("details = %+v", rep.Details)
	}
}

func TestAnalyzeCapacityFloor(t *testing.T) {
	snap := Snapshot{"a": {MaterialID: 1, Stock: 95, Unit: "ml"}}
	def := &Definition{
		Lines: []MaterialLine{{Material: "A", Formula: "10", Unit: "ml", Kind: LineSimple}},
	}
	rep := AnalyzeCapacity(def, nil, snap)
	if rep.MaxBatches != 9 {
		t.Errorf("MaxBatches = %d, want floor(95/10)=9", rep.MaxBatches)
	}
}

func TestAnalyzeCapacityMissingMaterialShortCircuits(t *testing.T) {
	snap := Snapshot{"a": {MaterialID: 1, Stock: 100, Unit: "ml"}}
	def := &Definition{
		Lines: []MaterialLine{
			{
				Material: "Mix", Formula: "1", Unit: "pcs", Kind: LineComposite,
				Ingredients: []IngredientSpec{{Material: "Gone", Amount: 1, Unit: "g"}},
			},
			{Material: "A", Formula: "10", Unit: "ml", Kind: LineSimple},
		},
	}
	rep := AnalyzeCapacity(def, nil, snap)
	if rep.MaxBatches != 0 {
		t.Errorf("MaxBatches = %d, want 0", rep.MaxBatches)
	}
	if rep.Limiting != "Gone" {
		t.Errorf("Limiting = %q, want Gone", rep.Limiting)
	}
}

func TestAnalyzeCapacityNoRealNeedsIsUnbounded(t *testing.T) {
	def := &Definition{
		Lines: []MaterialLine{
			{Material: "Virtual Only", Formula: "3", Unit: "pcs", Kind: LineSimple},
		},
	}
	rep := AnalyzeCapacity(def, nil, Snapshot{})
	if rep.MaxBatches != CapacityUnbounded {
		t.Errorf("MaxBatches = %d, want unbounded sentinel", rep.MaxBatches)
	}
	if rep.Limiting != "" {
		t.Errorf("Limiting = %q, want empty", rep.Limiting)
	}
}

func TestAnalyzeCapacityIgnoresMargin(t *testing.T) {
	// ёмкость считается для одного прогона без запаса прочности:
	// методика с потребностью 10 мл при остатке 100 мл — ровно 10 прогонов
	snap := Snapshot{"a": {MaterialID: 1, Stock: 100, Unit: "ml"}}
	def := &Definition{
		Lines: []MaterialLine{{Material: "A", Formula: "10", Unit: "ml", Kind: LineSimple}},
	}
	rep := AnalyzeCapacity(def, nil, snap)
	if rep.MaxBatches != 10 {
		t.Errorf("MaxBatches = %d, want 10", rep.MaxBatches)
	}
}
