package procedure

import "time"

type InputKind string

const (
	InputNumber  InputKind = "number"
	InputBoolean InputKind = "boolean"
)

type LineKind string

const (
	LineSimple    LineKind = "simple"
	LineComposite LineKind = "composite"
)

// InputSpec — входной параметр методики (SOP).
type InputSpec struct {
	Name    string    `json:"name"`
	Kind    InputKind `json:"kind"`
	Default float64   `json:"default"` // для boolean: 0 или 1
	Unit    string    `json:"unit,omitempty"`
}

// DerivedVar — промежуточная переменная; порядок объявления значим.
type DerivedVar struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
}

// IngredientSpec — реальный складской ингредиент composite-строки.
// Amount — физическое количество на одну единицу composite-строки.
type IngredientSpec struct {
	Material string  `json:"material"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
}

// MaterialLine — строка спецификации материалов.
// Material сопоставляется со складом по имени; если записи на складе
// нет — материал «виртуальный». Формула composite-строки даёт число
// единиц/замесов, а не физическое количество.
type MaterialLine struct {
	Material    string           `json:"material"`
	Formula     string           `json:"formula"`
	Unit        string           `json:"unit"`
	Condition   string           `json:"condition,omitempty"`
	Kind        LineKind         `json:"kind"`
	Ingredients []IngredientSpec `json:"ingredients,omitempty"`
}

// Definition — определение методики.
type Definition struct {
	Name    string         `json:"name"`
	Inputs  []InputSpec    `json:"inputs"`
	Derived []DerivedVar   `json:"derived,omitempty"`
	Lines   []MaterialLine `json:"lines"`
}

// Procedure — методика, как она хранится.
type Procedure struct {
	ID         int64
	Definition Definition
	RunsCount  int64
	CreatedAt  time.Time
}

// StockInfo — складская запись в снимке для расчёта (read-only).
type StockInfo struct {
	MaterialID int64
	Stock      float64
	Unit       string
	Threshold  float64
}

// Snapshot — снимок склада, ключ — имя материала в нижнем регистре.
type Snapshot map[string]StockInfo

// CalculatedIngredient — рассчитанный ингредиент composite-строки.
// Total — в объявленной единице («как отмеряли»),
// StockTotal — в складской («что уходит со склада»).
type CalculatedIngredient struct {
	Material     string  `json:"material"`
	MaterialID   int64   `json:"material_id,omitempty"`
	PerUnit      float64 `json:"per_unit"`
	Unit         string  `json:"unit"`
	Total        float64 `json:"total"`
	StockUnit    string  `json:"stock_unit,omitempty"`
	StockTotal   float64 `json:"stock_total"`
	UnitMismatch bool    `json:"unit_mismatch,omitempty"`
	Virtual      bool    `json:"virtual,omitempty"`
}

// CalculatedMaterial — рассчитанная строка с учётом запаса прочности.
type CalculatedMaterial struct {
	Material     string                 `json:"material"`
	MaterialID   int64                  `json:"material_id,omitempty"`
	Kind         LineKind               `json:"kind"`
	Unit         string                 `json:"unit"`
	Total        float64                `json:"total"`       // в объявленной единице
	StockUnit    string                 `json:"stock_unit,omitempty"`
	StockTotal   float64                `json:"stock_total"` // в складской единице
	Virtual      bool                   `json:"virtual,omitempty"`
	UnitMismatch bool                   `json:"unit_mismatch,omitempty"`
	FormulaError bool                   `json:"formula_error,omitempty"`
	Ingredients  []CalculatedIngredient `json:"ingredients,omitempty"`
}

// Deduction — позиция плоского списка списания (складские единицы).
// Missing=true означает, что материал упоминается методикой,
// но на складе его нет — Approve по такому списку обязан упасть.
type Deduction struct {
	Material   string  `json:"material"`
	MaterialID int64   `json:"material_id,omitempty"`
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit,omitempty"`
	Missing    bool    `json:"missing,omitempty"`
}
