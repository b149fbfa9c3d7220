package handler

import (
	"net/http"

	"github.com/Dan9191/budget-service/internal/service"
	"github.com/gorilla/mux"
)

const groupNotFound = "Group not found"

type groupName struct {
	Name string `json:"name"`
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req groupName
	if !decode(w, r, &req) {
		return
	}
	g, err := h.svc.CreateGroup(r.Context(), userID, req.Name)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Group created!", "group_id": g.ID})
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	groups, err := h.svc.ListGroups(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *Handler) InviteMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	member, err := h.svc.InviteMember(r.Context(), userID, mux.Vars(r)["id"], req.Email)
	if err != nil {
		h.fail(w, r, err, "User with that email not found.")
		return
	}
	writeMessage(w, http.StatusOK, member.Email+" has been added to the group!")
}

func (h *Handler) AddGroupExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var in service.GroupExpenseInput
	if !decode(w, r, &in) {
		return
	}
	e, err := h.svc.AddGroupExpense(r.Context(), userID, mux.Vars(r)["id"], in)
	if err != nil {
		h.fail(w, r, err, groupNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Expense added to group!", "_id": e.ID})
}

func (h *Handler) GroupDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	details, err := h.svc.GroupDetails(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err, groupNotFound)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) RenameGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req groupName
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.RenameGroup(r.Context(), userID, mux.Vars(r)["id"], req.Name); err != nil {
		h.fail(w, r, err, groupNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Group name updated successfully!")
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteGroup(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err, groupNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "Group and all its expenses deleted successfully!")
}
