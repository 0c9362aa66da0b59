package procedure

import (
	"math"

	"github.com/Spok95/labstock/internal/domain/formula"
)

// CapacityUnbounded — сентинел «сколько угодно» для методик без
// складских потребностей; показывается пользователю, поэтому не Inf.
const CapacityUnbounded = int64(1_000_000_000)

// CapacityDetail — ограничение по одному складскому материалу.
type CapacityDetail struct {
	Material   string  `json:"material"`
	MaterialID int64   `json:"material_id,omitempty"`
	PerBatch   float64 `json:"per_batch"`
	Available  float64 `json:"available"`
	Batches    int64   `json:"batches"`
	Missing    bool    `json:"missing,omitempty"`
}

// CapacityReport — итог анализа «узкого места».
type CapacityReport struct {
	MaxBatches int64            `json:"max_batches"`
	Limiting   string           `json:"limiting,omitempty"`
	Details    []CapacityDetail `json:"details"`
}

// AnalyzeCapacity считает, сколько прогонов методики покрывает текущий
// склад: расчёт одного условного прогона без запаса прочности, затем
// min(floor(остаток/потребность)) по плоскому списку списания.
// Материал, требуемый методикой, но отсутствующий на складе, сразу
// делает ёмкость нулевой.
func AnalyzeCapacity(def *Definition, inputs map[string]formula.Value, snap Snapshot) CapacityReport {
	needs := FlattenDeductions(CalculateNeeds(def, inputs, 0, snap))

	report := CapacityReport{MaxBatches: CapacityUnbounded}

	for _, d := range needs {
		if d.Missing {
			report.Details = append(report.Details, CapacityDetail{
				Material: d.Material,
				PerBatch: d.Amount,
				Missing:  true,
			})
			report.MaxBatches = 0
			report.Limiting = d.Material
			return report
		}
		if d.Amount <= 0 {
			continue
		}

		info := snap[snapKey(d.Material)]
		batches := int64(math.Floor(info.Stock / d.Amount))
		report.Details = append(report.Details, CapacityDetail{
			Material:   d.Material,
			MaterialID: d.MaterialID,
			PerBatch:   d.Amount,
			Available:  info.Stock,
			Batches:    batches,
		})
		// при равенстве остаётся первый встреченный материал
		if batches < report.MaxBatches {
			report.MaxBatches = batches
			report.Limiting = d.Material
		}
	}

	if len(report.Details) == 0 {
		report.MaxBatches = CapacityUnbounded
		report.Limiting = ""
	}

	return report
}
