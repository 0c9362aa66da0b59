package inventory

import "time"

// Item — складская позиция. Stock мутируется только атомарными
// операциями леджера либо административными правками; расчётный
// конвейер читает склад снимком и ничего не меняет.
type Item struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Stock      float64   `json:"stock"`
	Unit       string    `json:"unit"`
	Threshold  float64   `json:"low_stock_threshold"`
	UsageCount int64     `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Movement — неизменяемая запись движения по складу (аудит).
type Movement struct {
	ID        int64     `json:"id"`
	RequestID *int64    `json:"request_id,omitempty"`
	Material  string    `json:"material"`
	Delta     float64   `json:"delta"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}
