package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/l4nzaerol/balagbag/internal/admin/metrics"
	"github.com/l4nzaerol/balagbag/internal/admin/orders"
	"github.com/l4nzaerol/balagbag/internal/admin/production"
	"github.com/l4nzaerol/balagbag/internal/admin/store"
	"github.com/l4nzaerol/balagbag/internal/admin/workflow"
)

// dateLayout is the calendar-day format used by the date-range filter inputs.
const dateLayout = "2006-01-02"

type handler struct {
	store      *store.Store
	controller *store.Controller
	engine     *workflow.Engine
	gate       production.Gate
	logger     *zap.Logger
}

type listOrdersResponse struct {
	Orders   []orders.Order `json:"orders"`
	Count    int            `json:"count"`
	Total    int            `json:"total"`
	SyncedAt time.Time      `json:"synced_at"`
}

// listOrders serves the filtered snapshot. The `status` query parameter also
// covers the navigation-seeded initial filter: callers arriving from a
// dashboard link pass it on the first request.
func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	view, ok := orders.ParseView(q.Get("view"))
	if !ok {
		writeValidation(w, "unknown view: "+q.Get("view"))
		return
	}
	productType, ok := orders.ParseProductType(q.Get("product_type"))
	if !ok {
		writeValidation(w, "unknown product type: "+q.Get("product_type"))
		return
	}

	criteria := orders.Criteria{Search: q.Get("search")}

	if raw := q.Get("status"); raw != "" {
		status, ok := orders.ParseFulfillmentStatus(raw)
		if !ok {
			writeValidation(w, "unknown status: "+raw)
			return
		}
		criteria.Status = status
	}
	if raw := q.Get("acceptance_status"); raw != "" {
		acceptance, ok := orders.ParseAcceptanceStatus(raw)
		if !ok {
			writeValidation(w, "unknown acceptance status: "+raw)
			return
		}
		criteria.Acceptance = acceptance
	}
	if raw := q.Get("payment_method"); raw != "" {
		criteria.PaymentMethod = orders.PaymentMethod(raw)
	}
	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeValidation(w, "invalid start_date: "+raw)
			return
		}
		criteria.StartDate = &t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeValidation(w, "invalid end_date: "+raw)
			return
		}
		criteria.EndDate = &t
	}

	snapshot := h.store.Orders()
	filtered := orders.Filter(snapshot, view, productType, criteria)

	writeJSON(w, http.StatusOK, listOrdersResponse{
		Orders:   filtered,
		Count:    len(filtered),
		Total:    len(snapshot),
		SyncedAt: h.store.SyncedAt(),
	})
}

// orderStats serves the global statistics. Always derived from the full
// snapshot, never from whatever the operator is currently filtering on.
func (h *handler) orderStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Statistics())
}

func (h *handler) refreshOrders(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Refresh(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "orders refreshed",
		"synced_at": h.store.SyncedAt(),
	})
}

func (h *handler) productionStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	// Do not require the order to be in the snapshot: the tracker is the
	// authority and the snapshot may be mid-refresh.
	writeJSON(w, http.StatusOK, h.gate.Check(r.Context(), orderID))
}

type acceptRequest struct {
	AdminNotes string `json:"admin_notes"`
}

func (h *handler) acceptOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	order, ok := h.store.Get(orderID)
	if !ok {
		h.writeError(w, orders.ErrOrderNotFound)
		return
	}

	var req acceptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.engine.Accept(r.Context(), order, req.AdminNotes)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":             "order accepted",
		"productions_created": result.ProductionsCreated,
	})
}

type rejectRequest struct {
	RejectionReason string `json:"rejection_reason"`
	AdminNotes      string `json:"admin_notes"`
}

func (h *handler) rejectOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	order, ok := h.store.Get(orderID)
	if !ok {
		h.writeError(w, orders.ErrOrderNotFound)
		return
	}

	var req rejectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.engine.Reject(r.Context(), order, req.RejectionReason, req.AdminNotes); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "order rejected"})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}
	order, ok := h.store.Get(orderID)
	if !ok {
		h.writeError(w, orders.ErrOrderNotFound)
		return
	}

	var req statusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	target, ok := orders.ParseFulfillmentStatus(req.Status)
	if !ok || !target.Transitionable() {
		writeValidation(w, "unknown status: "+req.Status)
		return
	}

	if err := h.engine.Transition(r.Context(), order, target); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "order status updated",
		"status":  target,
	})
}

func (h *handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "orderID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, orders.ErrOrderNotFound)
		return 0, false
	}
	return id, true
}

// writeError maps workflow and backend failures onto HTTP statuses. Backend
// messages are passed through verbatim so the operator sees the real cause.
func (h *handler) writeError(w http.ResponseWriter, err error) {
	var validationErr *workflow.ValidationError
	var transitionErr *workflow.IllegalTransitionError

	switch {
	case errors.As(err, &validationErr):
		writeValidation(w, validationErr.Error())
	case errors.As(err, &transitionErr):
		metrics.TransitionsDenied.WithLabelValues(string(transitionErr.Reason)).Inc()
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":  transitionErr.Error(),
			"reason": string(transitionErr.Reason),
		})
	case errors.Is(err, orders.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": orders.ErrOrderNotFound.Error()})
	case errors.Is(err, orders.ErrNotPending):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, orders.ErrReasonRequired), errors.Is(err, orders.ErrInvalidStatus):
		writeValidation(w, err.Error())
	default:
		h.logger.Error("backend call failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
}

func writeValidation(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
