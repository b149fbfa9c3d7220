package handler

import (
	"net/http"

	"github.com/Dan9191/budget-service/internal/service"
	"github.com/gorilla/mux"
)

func (h *Handler) AddGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var in service.GoalInput
	if !decode(w, r, &in) {
		return
	}
	goal, err := h.svc.AddGoal(r.Context(), userID, in)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Goal added successfully!", "_id": goal.ID})
}

func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	goals, err := h.svc.ListGoals(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteGoal(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err, "Goal not found")
		return
	}
	writeMessage(w, http.StatusOK, "Goal deleted successfully!")
}
