package procedure

import (
	"github.com/Spok95/labstock/internal/domain/formula"
)

// Число полных проходов по промежуточным переменным. Трёх хватает для
// ссылок «вперёд» и взаимных ссылок без настоящего цикла; цикл
// не сойдётся, и остаётся значение последнего прохода.
const resolvePasses = 3

// Resolve собирает контекст переменных: входы (явное значение либо
// default), затем resolvePasses проходов по промежуточным формулам в
// порядке объявления. Ошибка формулы на проходе даёт переменной 0.
func Resolve(def *Definition, inputs map[string]formula.Value) map[string]formula.Value {
	ctx := make(map[string]formula.Value, len(def.Inputs)+len(def.Derived))

	for _, in := range def.Inputs {
		v, ok := inputs[in.Name]
		if !ok {
			if in.Kind == InputBoolean {
				ctx[in.Name] = in.Default != 0
			} else {
				ctx[in.Name] = in.Default
			}
			continue
		}
		switch t := v.(type) {
		case bool:
			ctx[in.Name] = t
		case float64:
			ctx[in.Name] = t
		case int:
			ctx[in.Name] = float64(t)
		case int64:
			ctx[in.Name] = float64(t)
		default:
			// неизвестный тип значения — как default
			ctx[in.Name] = in.Default
		}
	}

	for pass := 0; pass < resolvePasses; pass++ {
		for _, dv := range def.Derived {
			n, err := formula.EvalNumber(dv.Formula, ctx)
			if err != nil {
				ctx[dv.Name] = float64(0)
				continue
			}
			ctx[dv.Name] = n
		}
	}

	return ctx
}
