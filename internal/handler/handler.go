package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dan9191/budget-service/internal/analytics"
	"github.com/Dan9191/budget-service/internal/middleware"
	"github.com/Dan9191/budget-service/internal/models"
	"github.com/Dan9191/budget-service/internal/service"
	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Budget is the business logic the HTTP layer exposes
type Budget interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)

	AddTransaction(ctx context.Context, userID string, in service.TransactionInput) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id string, in service.TransactionInput) error
	DeleteTransaction(ctx context.Context, userID, id string) error

	Summary(ctx context.Context, userID string) (*models.Summary, error)
	CategoricalSummary(ctx context.Context, userID string) ([]analytics.CategoryTotal, error)
	Analysis(ctx context.Context, userID string) (analytics.Analysis, error)
	Trends(ctx context.Context, userID, rule string) (analytics.Trends, error)
	Insights(ctx context.Context, userID, timeframe string) (analytics.Insights, error)
	Risk(ctx context.Context, userID string) (analytics.RiskAssessment, error)
	CheckAnomaly(ctx context.Context, userID string, check analytics.AnomalyCheck) (analytics.AnomalyResult, error)

	AddGoal(ctx context.Context, userID string, in service.GoalInput) (*models.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]models.GoalView, error)
	DeleteGoal(ctx context.Context, userID, id string) error

	CreateGroup(ctx context.Context, userID, name string) (*models.Group, error)
	ListGroups(ctx context.Context, userID string) ([]models.Group, error)
	InviteMember(ctx context.Context, userID, groupID, email string) (*models.MemberDetails, error)
	AddGroupExpense(ctx context.Context, userID, groupID string, in service.GroupExpenseInput) (*models.GroupExpense, error)
	GroupDetails(ctx context.Context, userID, groupID string) (*models.GroupDetails, error)
	RenameGroup(ctx context.Context, userID, groupID, name string) error
	DeleteGroup(ctx context.Context, userID, groupID string) error
}

type Handler struct {
	svc Budget
	log *logrus.Logger
}

func NewHandler(svc Budget, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Routes mounts every endpoint on r. Everything except signup and login
// goes through auth.
func (h *Handler) Routes(r *mux.Router, auth mux.MiddlewareFunc) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/signup", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	p := api.NewRoute().Subrouter()
	p.Use(auth)
	p.HandleFunc("/transactions", h.AddTransaction).Methods(http.MethodPost)
	p.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)
	p.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods(http.MethodPut)
	p.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods(http.MethodDelete)

	p.HandleFunc("/summary", h.Summary).Methods(http.MethodGet)
	p.HandleFunc("/categorical_summary", h.CategoricalSummary).Methods(http.MethodGet)
	p.HandleFunc("/analysis", h.Analysis).Methods(http.MethodGet)
	p.HandleFunc("/trends", h.Trends).Methods(http.MethodGet)
	p.HandleFunc("/insights", h.Insights).Methods(http.MethodGet)
	p.HandleFunc("/risk", h.Risk).Methods(http.MethodGet)
	p.HandleFunc("/check-anomaly", h.CheckAnomaly).Methods(http.MethodPost)

	p.HandleFunc("/goals", h.AddGoal).Methods(http.MethodPost)
	p.HandleFunc("/goals", h.ListGoals).Methods(http.MethodGet)
	p.HandleFunc("/goals/{id}", h.DeleteGoal).Methods(http.MethodDelete)

	p.HandleFunc("/groups", h.CreateGroup).Methods(http.MethodPost)
	p.HandleFunc("/groups", h.ListGroups).Methods(http.MethodGet)
	p.HandleFunc("/groups/{id}", h.GroupDetails).Methods(http.MethodGet)
	p.HandleFunc("/groups/{id}", h.RenameGroup).Methods(http.MethodPut)
	p.HandleFunc("/groups/{id}", h.DeleteGroup).Methods(http.MethodDelete)
	p.HandleFunc("/groups/{id}/members", h.InviteMember).Methods(http.MethodPost)
	p.HandleFunc("/groups/{id}/expenses", h.AddGroupExpense).Methods(http.MethodPost)
}

type message struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, message{Message: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// fail maps a service error onto a response. Unexpected errors are logged,
// reported to Sentry and hidden from the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Could not verify")
	case errors.Is(err, service.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Permission denied")
	case errors.Is(err, service.ErrNotFound):
		writeMessage(w, http.StatusNotFound, notFound)
	case errors.Is(err, service.ErrConflict):
		writeMessage(w, http.StatusConflict, "User already exists")
	default:
		h.log.WithFields(logrus.Fields{
			"request_id": middleware.RequestID(r.Context()),
			"path":       r.URL.Path,
		}).Errorf("Request failed: %v", err)
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// currentUser returns the id placed in the context by the auth middleware
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Token is missing!")
	}
	return id, ok
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decode(w, r, &req) {
		return
	}
	user, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "New user created!", "user_id": user.ID})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if !decode(w, r, &req) {
		return
	}
	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
