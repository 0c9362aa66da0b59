package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Spok95/labstock/internal/domain/formula"
	"github.com/Spok95/labstock/internal/domain/inventory"
	"github.com/Spok95/labstock/internal/domain/procedure"
	"github.com/Spok95/labstock/internal/domain/requests"
)

// approveRetries — ограниченный повтор транзакции при конфликте
// сериализации; бизнес-ошибки (нехватка, нет материала) не повторяются.
const approveRetries = 3

type handlers struct {
	d Deps
}

type calcPayload struct {
	ProcedureID   int64          `json:"procedure_id"`
	Inputs        map[string]any `json:"inputs"`
	MarginPercent float64        `json:"margin_percent"`
	CreatedBy     string         `json:"created_by,omitempty"`
}

func (h *handlers) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.d.Log.Error("response encode failed", "err", err)
	}
}

func (h *handlers) writeError(w http.ResponseWriter, code int, err error) {
	h.writeJSON(w, code, map[string]string{"error": err.Error()})
}

func toValues(in map[string]any) map[string]formula.Value {
	out := make(map[string]formula.Value, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// loadCalc читает payload, методику и снимок склада — общая часть
// calculate/capacity/createRequest.
func (h *handlers) loadCalc(w http.ResponseWriter, r *http.Request) (*calcPayload, *procedure.Procedure, procedure.Snapshot, bool) {
	var p calcPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("bad payload: %w", err))
		return nil, nil, nil, false
	}
	proc, err := h.d.Procedures.GetByID(r.Context(), p.ProcedureID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return nil, nil, nil, false
	}
	if proc == nil {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("procedure %d not found", p.ProcedureID))
		return nil, nil, nil, false
	}
	snap, err := h.d.Inventory.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return nil, nil, nil, false
	}
	return &p, proc, snap, true
}

func (h *handlers) calculate(w http.ResponseWriter, r *http.Request) {
	p, proc, snap, ok := h.loadCalc(w, r)
	if !ok {
		return
	}
	mats := procedure.CalculateNeeds(&proc.Definition, toValues(p.Inputs), p.MarginPercent, snap)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"materials":  mats,
		"deductions": procedure.FlattenDeductions(mats),
	})
}

func (h *handlers) capacity(w http.ResponseWriter, r *http.Request) {
	p, proc, snap, ok := h.loadCalc(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, procedure.AnalyzeCapacity(&proc.Definition, toValues(p.Inputs), snap))
}

func (h *handlers) listProcedures(w http.ResponseWriter, r *http.Request) {
	out, err := h.d.Procedures.List(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *handlers) createProcedure(w http.ResponseWriter, r *http.Request) {
	var def procedure.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("bad definition: %w", err))
		return
	}
	p, err := h.d.Procedures.Create(r.Context(), def)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

func (h *handlers) listInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.d.Inventory.List(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *handlers) createMaterial(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Name      string  `json:"name"`
		Unit      string  `json:"unit"`
		Stock     float64 `json:"stock"`
		Threshold float64 `json:"low_stock_threshold"`
	}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if p.Name == "" || p.Unit == "" {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("name and unit are required"))
		return
	}
	it, err := h.d.Inventory.Create(r.Context(), p.Name, p.Unit, p.Stock, p.Threshold)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, it)
}

func (h *handlers) exportInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.d.Inventory.List(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	data, err := inventory.ExportStocks(items)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	name := fmt.Sprintf("materials_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(data)
}

// importInventory подгоняет остатки под загруженный файл: все дельты
// применяются одной транзакцией (частично «подогнанного» склада не
// бывает).
func (h *handlers) importInventory(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	rows, err := inventory.ParseStocksFile(data)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	apply := func() error {
		return h.d.Store.WithTx(r.Context(), func(tx requests.Tx) error {
			for _, row := range rows {
				cur, found, err := tx.Stock(r.Context(), row.Material)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%w: %s", requests.ErrMaterialNotFound, row.Material)
				}
				if delta := row.Qty - cur.Stock; delta != 0 {
					if err := tx.AddStock(r.Context(), row.Material, delta, 0, "excel import"); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}

	for attempt := 0; ; attempt++ {
		err = apply()
		if !errors.Is(err, requests.ErrTxConflict) || attempt >= approveRetries-1 {
			break
		}
	}
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"rows": len(rows)})
}

func (h *handlers) listMovements(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := h.d.Inventory.ListMovements(r.Context(), limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *handlers) listRequests(w http.ResponseWriter, r *http.Request) {
	out, err := h.d.Requests.List(r.Context(), requests.Status(r.URL.Query().Get("status")))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *handlers) createRequest(w http.ResponseWriter, r *http.Request) {
	p, proc, snap, ok := h.loadCalc(w, r)
	if !ok {
		return
	}
	mats := procedure.CalculateNeeds(&proc.Definition, toValues(p.Inputs), p.MarginPercent, snap)

	req := &requests.Request{
		ProcedureID:   proc.ID,
		Materials:     mats,
		Deductions:    procedure.FlattenDeductions(mats),
		Inputs:        toValues(p.Inputs),
		MarginPercent: p.MarginPercent,
		CreatedBy:     p.CreatedBy,
	}
	if err := h.d.Requests.Create(r.Context(), req); err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, req)
}

func (h *handlers) loadRequest(w http.ResponseWriter, r *http.Request) *requests.Request {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("bad request id"))
		return nil
	}
	req, err := h.d.Requests.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return nil
	}
	if req == nil {
		h.writeError(w, http.StatusNotFound, fmt.Errorf("request %d not found", id))
		return nil
	}
	return req
}

func (h *handlers) getRequest(w http.ResponseWriter, r *http.Request) {
	if req := h.loadRequest(w, r); req != nil {
		h.writeJSON(w, http.StatusOK, req)
	}
}

func (h *handlers) writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, requests.ErrTxConflict),
		errors.Is(err, requests.ErrNotPending),
		errors.Is(err, requests.ErrNotApproved):
		h.writeError(w, http.StatusConflict, err)
	case errors.Is(err, requests.ErrMaterialNotFound),
		errors.Is(err, requests.ErrInsufficientStock):
		h.writeError(w, http.StatusUnprocessableEntity, err)
	default:
		h.writeError(w, http.StatusInternalServerError, err)
	}
}

func (h *handlers) approveRequest(w http.ResponseWriter, r *http.Request) {
	req := h.loadRequest(w, r)
	if req == nil {
		return
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = h.d.Ledger.Approve(r.Context(), req)
		if !errors.Is(err, requests.ErrTxConflict) || attempt >= approveRetries-1 {
			break
		}
		h.d.Log.Info("approve conflict, retrying", "request_id", req.ID, "attempt", attempt+1)
	}
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

func (h *handlers) revokeRequest(w http.ResponseWriter, r *http.Request) {
	req := h.loadRequest(w, r)
	if req == nil {
		return
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = h.d.Ledger.Revoke(r.Context(), req)
		if !errors.Is(err, requests.ErrTxConflict) || attempt >= approveRetries-1 {
			break
		}
	}
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

func (h *handlers) rejectRequest(w http.ResponseWriter, r *http.Request) {
	req := h.loadRequest(w, r)
	if req == nil {
		return
	}
	if err := h.d.Ledger.Reject(r.Context(), req); err != nil {
		h.writeLedgerError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}
