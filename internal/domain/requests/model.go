package requests

import (
	"time"

	"github.com/Spok95/labstock/internal/domain/formula"
	"github.com/Spok95/labstock/internal/domain/procedure"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request — заявка на списание. После approve снимок Materials
// неизменяем: переиздание документа никогда не пересчитывается,
// определение методики могло измениться.
type Request struct {
	ID            int64                          `json:"id"`
	ProcedureID   int64                          `json:"procedure_id"`
	Status        Status                         `json:"status"`
	Materials     []procedure.CalculatedMaterial `json:"materials"`
	Deductions    []procedure.Deduction          `json:"deductions"`
	Inputs        map[string]formula.Value       `json:"inputs"`
	MarginPercent float64                        `json:"margin_percent"`
	CreatedBy     string                         `json:"created_by"`
	CreatedAt     time.Time                      `json:"created_at"`
	ApprovedAt    *time.Time                     `json:"approved_at,omitempty"`
	RejectedAt    *time.Time                     `json:"rejected_at,omitempty"`
	RevokedAt     *time.Time                     `json:"revoked_at,omitempty"`
}
