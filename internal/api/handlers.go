package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/nik-bond/pizzatg/internal/calculator"
	"github.com/nik-bond/pizzatg/internal/models"
	"github.com/nik-bond/pizzatg/internal/service"
)

type createOrderRequest struct {
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Payer        string          `json:"payer"`
	Participants []string        `json:"participants"`
	CreatedBy    string          `json:"created_by"`
	ChatID       int64           `json:"chat_id"`
}

type recordPaymentRequest struct {
	Debtor   string          `json:"debtor"`
	Creditor string          `json:"creditor"`
	Amount   decimal.Decimal `json:"amount"`
	ChatID   int64           `json:"chat_id"`
}

func (a *API) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &service.ValidationError{Reason: "invalid request body"})
		return
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = req.Payer
	}

	order, err := a.orders.CreateOrder(r.Context(), req.Description, req.Amount, req.Payer, req.Participants, createdBy, req.ChatID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Applying the order is a separate engine step; the handler sequences
	// the two calls, mirroring how the order and its debts are one user
	// action.
	debts, err := a.debts.ApplyOrder(r.Context(), order)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"order": orderJSON(order),
		"debts": debtsJSON(debts),
	})
}

func (a *API) handleDeleteLastOrder(w http.ResponseWriter, r *http.Request) {
	creator := r.URL.Query().Get("creator")
	if creator == "" {
		writeError(w, &service.ValidationError{Reason: "creator is required"})
		return
	}
	chatID, err := strconv.ParseInt(r.URL.Query().Get("chat_id"), 10, 64)
	if err != nil {
		writeError(w, &service.ValidationError{Reason: "chat_id must be an integer"})
		return
	}

	order, err := a.orders.LastOrder(r.Context(), creator, chatID)
	if err != nil {
		writeError(w, err)
		return
	}

	// Reverse the generated debts before the order record goes away.
	if err := a.debts.ReverseOrder(r.Context(), order); err != nil {
		writeError(w, err)
		return
	}
	if err := a.orders.DeleteOrder(r.Context(), order.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": orderJSON(order)})
}

func (a *API) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &service.ValidationError{Reason: "invalid request body"})
		return
	}

	payment, err := a.payments.RecordPayment(r.Context(), req.Debtor, req.Creditor, req.Amount, req.ChatID)
	if err != nil {
		writeError(w, err)
		return
	}

	remaining, err := a.debts.Debt(r.Context(), req.Debtor, req.Creditor, req.ChatID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"payment":   paymentJSON(payment),
		"remaining": remaining,
	})
}

func (a *API) handleAllDebts(w http.ResponseWriter, r *http.Request) {
	chatID := chatIDVar(r)
	view, err := a.debts.AllDebts(r.Context(), chatID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewJSON(view))
}

func (a *API) handleDebtsByDebtor(w http.ResponseWriter, r *http.Request) {
	view, err := a.debts.DebtsByDebtor(r.Context(), mux.Vars(r)["user"], chatIDVar(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewJSON(view))
}

func (a *API) handleDebtsByCreditor(w http.ResponseWriter, r *http.Request) {
	view, err := a.debts.DebtsByCreditor(r.Context(), mux.Vars(r)["user"], chatIDVar(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewJSON(view))
}

func (a *API) handleConsolidatedDebts(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, &service.ValidationError{Reason: "user is required"})
		return
	}

	consolidated, err := a.debts.ConsolidatedDebts(r.Context(), user, chatIDVar(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, consolidatedJSON(consolidated))
}

func (a *API) handleNetBalance(w http.ResponseWriter, r *http.Request) {
	userA := r.URL.Query().Get("user_a")
	userB := r.URL.Query().Get("user_b")
	if userA == "" || userB == "" {
		writeError(w, &service.ValidationError{Reason: "user_a and user_b are required"})
		return
	}

	balance, err := a.debts.NetBalance(r.Context(), userA, userB, chatIDVar(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"net_amount":   balance.NetAmount,
		"net_debtor":   balance.NetDebtor,
		"net_creditor": balance.NetCreditor,
	})
}

func (a *API) handleListPayments(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, &service.ValidationError{Reason: "user is required"})
		return
	}

	var (
		payments []models.Payment
		err      error
	)
	switch role := r.URL.Query().Get("role"); role {
	case "", "debtor":
		payments, err = a.payments.PaymentsByDebtor(r.Context(), user, chatIDVar(r))
	case "creditor":
		payments, err = a.payments.PaymentsByCreditor(r.Context(), user, chatIDVar(r))
	default:
		writeError(w, &service.ValidationError{Reason: "role must be debtor or creditor"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]any, 0, len(payments))
	for i := range payments {
		out = append(out, paymentJSON(&payments[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": out})
}

// chatIDVar reads the {chatID} route variable. The route pattern already
// constrains it to an integer.
func chatIDVar(r *http.Request) int64 {
	chatID, _ := strconv.ParseInt(mux.Vars(r)["chatID"], 10, 64)
	return chatID
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps typed domain errors to HTTP statuses. Validation
// messages reach the client verbatim; infrastructure errors do not.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validationErr.Reason})
	case errors.Is(err, service.ErrDebtNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrPaymentExceedsDebt):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func orderJSON(order *models.Order) map[string]any {
	return map[string]any{
		"id":                order.ID,
		"description":       order.Description,
		"amount":            order.Amount,
		"payer":             order.Payer,
		"participants":      order.Participants,
		"per_person_amount": order.PerPersonAmount,
		"created_by":        order.CreatedBy,
		"chat_id":           order.ChatID,
		"created_at":        order.CreatedAt,
	}
}

func debtsJSON(debts []models.Debt) []any {
	out := make([]any, 0, len(debts))
	for _, d := range debts {
		out = append(out, map[string]any{
			"debtor":      d.Debtor,
			"creditor":    d.Creditor,
			"amount":      d.Amount,
			"description": d.Description,
			"chat_id":     d.ChatID,
		})
	}
	return out
}

func paymentJSON(payment *models.Payment) map[string]any {
	return map[string]any{
		"id":         payment.ID,
		"debtor":     payment.Debtor,
		"creditor":   payment.Creditor,
		"amount":     payment.Amount,
		"chat_id":    payment.ChatID,
		"created_at": payment.CreatedAt,
	}
}

func viewJSON(view *service.DebtsView) map[string]any {
	body := map[string]any{
		"debts": debtsJSON(view.Debts),
		"total": view.Total,
	}
	if view.Message != "" {
		body["message"] = view.Message
	}
	return body
}

func consolidatedJSON(c *calculator.Consolidated) map[string]any {
	balances := make([]any, 0, len(c.Balances))
	for _, b := range c.Balances {
		entry := map[string]any{
			"counterparty": b.Counterparty,
			"direction":    string(b.Direction),
			"net_amount":   b.NetAmount,
		}
		if b.IOwe != nil {
			entry["i_owe"] = map[string]any{"amount": b.IOwe.Amount, "description": b.IOwe.Description}
		}
		if b.TheyOwe != nil {
			entry["they_owe"] = map[string]any{"amount": b.TheyOwe.Amount, "description": b.TheyOwe.Description}
		}
		balances = append(balances, entry)
	}
	return map[string]any{
		"balances":       balances,
		"total_i_owe":    c.TotalIOwe,
		"total_they_owe": c.TotalTheyOwe,
	}
}
