package handler

import (
	"net/http"

	"github.com/Dan9191/budget-service/internal/analytics"
	"github.com/Dan9191/budget-service/internal/service"
	"github.com/gorilla/mux"
)

const transactionNotFound = "Transaction not found or you do not have permission."

func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var in service.TransactionInput
	if !decode(w, r, &in) {
		return
	}
	tx, err := h.svc.AddTransaction(r.Context(), userID, in)
	if err != nil {
		h.fail(w, r, err, transactionNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Transaction added!", "_id": tx.ID})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	txs, err := h.svc.ListTransactions(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var in service.TransactionInput
	if !decode(w, r, &in) {
		return
	}
	if err := h.svc.UpdateTransaction(r.Context(), userID, mux.Vars(r)["id"], in); err != nil {
		h.fail(w, r, err, transactionNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Transaction updated!")
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteTransaction(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err, transactionNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Transaction deleted!")
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	summary, err := h.svc.Summary(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) CategoricalSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	totals, err := h.svc.CategoricalSummary(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *Handler) Analysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	analysis, err := h.svc.Analysis(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// Trends takes the bucket size from ?timeframe_rule=D|W-MON|ME
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	trends, err := h.svc.Trends(r.Context(), userID, r.URL.Query().Get("timeframe_rule"))
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

// Insights takes the bucket size from ?timeframe=daily|weekly|monthly
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	insights, err := h.svc.Insights(r.Context(), userID, r.URL.Query().Get("timeframe"))
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (h *Handler) Risk(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	risk, err := h.svc.Risk(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, risk)
}

func (h *Handler) CheckAnomaly(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var check analytics.AnomalyCheck
	if !decode(w, r, &check) {
		return
	}
	res, err := h.svc.CheckAnomaly(r.Context(), userID, check)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
