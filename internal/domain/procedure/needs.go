package procedure

import (
	"strings"

	"github.com/Spok95/labstock/internal/domain/formula"
	"github.com/Spok95/labstock/internal/domain/units"
)

// CalculateNeeds вычисляет потребность в материалах по методике.
// Чисто вычислительная функция: склад передаётся снимком и не мутируется.
// Ошибки формул и несовместимые единицы не фатальны — строка помечается
// флагом, расчёт остальных продолжается (§ политика «ошибки как данные»).
func CalculateNeeds(def *Definition, inputs map[string]formula.Value, marginPercent float64, snap Snapshot) []CalculatedMaterial {
	ctx := Resolve(def, inputs)
	out := make([]CalculatedMaterial, 0, len(def.Lines))

	for _, line := range def.Lines {
		formulaErr := false

		if strings.TrimSpace(line.Condition) != "" {
			cond, err := formula.Eval(line.Condition, ctx)
			if err != nil {
				// битое условие показываем, а не молча выкидываем строку
				formulaErr = true
			} else if !formula.Truthy(cond) {
				continue
			}
		}

		raw, err := formula.EvalNumber(line.Formula, ctx)
		if err != nil {
			raw = 0
			formulaErr = true
		}
		total := raw * (1 + marginPercent/100)

		cm := CalculatedMaterial{
			Material:     line.Material,
			Kind:         line.Kind,
			Unit:         line.Unit,
			Total:        total,
			StockTotal:   total,
			Virtual:      true,
			FormulaError: formulaErr,
		}

		if info, ok := snap[snapKey(line.Material)]; ok {
			cm.Virtual = false
			cm.MaterialID = info.MaterialID
			cm.StockUnit = info.Unit
			cm.StockTotal, cm.UnitMismatch = toStockUnit(total, line.Unit, info.Unit)
		}

		if line.Kind == LineComposite {
			cm.Ingredients = make([]CalculatedIngredient, 0, len(line.Ingredients))
			for _, ing := range line.Ingredients {
				ci := CalculatedIngredient{
					Material: ing.Material,
					PerUnit:  ing.Amount,
					Unit:     ing.Unit,
					Total:    total * ing.Amount,
				}
				ci.StockTotal = ci.Total
				if info, ok := snap[snapKey(ing.Material)]; ok {
					ci.MaterialID = info.MaterialID
					ci.StockUnit = info.Unit
					ci.StockTotal, ci.UnitMismatch = toStockUnit(ci.Total, ing.Unit, info.Unit)
				} else {
					ci.Virtual = true
				}
				cm.Ingredients = append(cm.Ingredients, ci)
			}
		}

		out = append(out, cm)
	}

	return out
}

// toStockUnit переводит amount в складскую единицу; при несовместимости
// единиц — 1:1 с флагом (расчёт продолжается, число помечено как
// ненадёжное).
func toStockUnit(amount float64, from, to string) (float64, bool) {
	conv, err := units.Convert(amount, from, to)
	if err != nil {
		return amount, true
	}
	return conv, false
}

// FlattenDeductions сводит результат расчёта в плоский список списания
// в складских единицах: simple-строки со склада плюс ингредиенты
// composite-строк. Дубли материалов суммируются, порядок — по первому
// вхождению. Ингредиент без складской записи попадает в список с
// Missing=true: Approve по нему обязан завершиться MaterialNotFound.
func FlattenDeductions(mats []CalculatedMaterial) []Deduction {
	index := make(map[string]int)
	var out []Deduction

	add := func(d Deduction) {
		k := snapKey(d.Material)
		if i, ok := index[k]; ok {
			out[i].Amount += d.Amount
			return
		}
		index[k] = len(out)
		out = append(out, d)
	}

	for _, m := range mats {
		switch m.Kind {
		case LineComposite:
			for _, ing := range m.Ingredients {
				add(Deduction{
					Material:   ing.Material,
					MaterialID: ing.MaterialID,
					Amount:     ing.StockTotal,
					Unit:       ing.StockUnit,
					Missing:    ing.Virtual,
				})
			}
		default:
			if m.Virtual {
				continue // виртуальный материал не списывается
			}
			add(Deduction{
				Material:   m.Material,
				MaterialID: m.MaterialID,
				Amount:     m.StockTotal,
				Unit:       m.StockUnit,
			})
		}
	}

	return out
}

func snapKey(material string) string {
	return strings.ToLower(strings.TrimSpace(material))
}
