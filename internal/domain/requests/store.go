package requests

import "context"

// StockRow — складская строка, как её видит транзакция леджера.
type StockRow struct {
	Stock     float64
	Unit      string
	Threshold float64
}

// Tx — операции одной атомарной транзакции. Чтение остатка происходит
// внутри той же транзакции, что и запись: окна между проверкой и
// списанием нет.
type Tx interface {
	Stock(ctx context.Context, material string) (StockRow, bool, error)
	AddStock(ctx context.Context, material string, delta float64, requestID int64, note string) error
	BumpUsage(ctx context.Context, material string, delta int64) error
	BumpRuns(ctx context.Context, procedureID int64, delta int64) error
	SaveRequest(ctx context.Context, req *Request) error
}

// Store исполняет fn в одной атомарной транзакции с сериализуемой
// изоляцией: либо все записи фиксируются, либо ни одна. Конкурентное
// изменение затронутых строк — ErrTxConflict (повтор на вызывающей
// стороне).
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}
