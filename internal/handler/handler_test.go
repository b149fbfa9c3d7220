package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dan9191/budget-service/internal/analytics"
	"github.com/Dan9191/budget-service/internal/config"
	"github.com/Dan9191/budget-service/internal/middleware"
	"github.com/Dan9191/budget-service/internal/models"
	"github.com/Dan9191/budget-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBudget is a mock implementation of Budget
type MockBudget struct {
	mock.Mock
}

func (m *MockBudget) Register(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(email, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockBudget) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(email, password)
	return args.String(0), args.Error(1)
}

func (m *MockBudget) AddTransaction(ctx context.Context, userID string, in service.TransactionInput) (*models.Transaction, error) {
	args := m.Called(userID, in)
	tx, _ := args.Get(0).(*models.Transaction)
	return tx, args.Error(1)
}

func (m *MockBudget) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	args := m.Called(userID)
	txs, _ := args.Get(0).([]models.Transaction)
	return txs, args.Error(1)
}

func (m *MockBudget) UpdateTransaction(ctx context.Context, userID, id string, in service.TransactionInput) error {
	return m.Called(userID, id, in).Error(0)
}

func (m *MockBudget) DeleteTransaction(ctx context.Context, userID, id string) error {
	return m.Called(userID, id).Error(0)
}

func (m *MockBudget) Summary(ctx context.Context, userID string) (*models.Summary, error) {
	args := m.Called(userID)
	s, _ := args.Get(0).(*models.Summary)
	return s, args.Error(1)
}

func (m *MockBudget) CategoricalSummary(ctx context.Context, userID string) ([]analytics.CategoryTotal, error) {
	args := m.Called(userID)
	out, _ := args.Get(0).([]analytics.CategoryTotal)
	return out, args.Error(1)
}

func (m *MockBudget) Analysis(ctx context.Context, userID string) (analytics.Analysis, error) {
	args := m.Called(userID)
	return args.Get(0).(analytics.Analysis), args.Error(1)
}

func (m *MockBudget) Trends(ctx context.Context, userID, rule string) (analytics.Trends, error) {
	args := m.Called(userID, rule)
	return args.Get(0).(analytics.Trends), args.Error(1)
}

func (m *MockBudget) Insights(ctx context.Context, userID, timeframe string) (analytics.Insights, error) {
	args := m.Called(userID, timeframe)
	return args.Get(0).(analytics.Insights), args.Error(1)
}

func (m *MockBudget) Risk(ctx context.Context, userID string) (analytics.RiskAssessment, error) {
	args := m.Called(userID)
	return args.Get(0).(analytics.RiskAssessment), args.Error(1)
}

func (m *MockBudget) CheckAnomaly(ctx context.Context, userID string, check analytics.AnomalyCheck) (analytics.AnomalyResult, error) {
	args := m.Called(userID, check)
	return args.Get(0).(analytics.AnomalyResult), args.Error(1)
}

func (m *MockBudget) AddGoal(ctx context.Context, userID string, in service.GoalInput) (*models.Goal, error) {
	args := m.Called(userID, in)
	g, _ := args.Get(0).(*models.Goal)
	return g, args.Error(1)
}

func (m *MockBudget) ListGoals(ctx context.Context, userID string) ([]models.GoalView, error) {
	args := m.Called(userID)
	out, _ := args.Get(0).([]models.GoalView)
	return out, args.Error(1)
}

func (m *MockBudget) DeleteGoal(ctx context.Context, userID, id string) error {
	return m.Called(userID, id).Error(0)
}

func (m *MockBudget) CreateGroup(ctx context.Context, userID, name string) (*models.Group, error) {
	args := m.Called(userID, name)
	g, _ := args.Get(0).(*models.Group)
	return g, args.Error(1)
}

func (m *MockBudget) ListGroups(ctx context.Context, userID string) ([]models.Group, error) {
	args := m.Called(userID)
	out, _ := args.Get(0).([]models.Group)
	return out, args.Error(1)
}

func (m *MockBudget) InviteMember(ctx context.Context, userID, groupID, email string) (*models.MemberDetails, error) {
	args := m.Called(userID, groupID, email)
	md, _ := args.Get(0).(*models.MemberDetails)
	return md, args.Error(1)
}

func (m *MockBudget) AddGroupExpense(ctx context.Context, userID, groupID string, in service.GroupExpenseInput) (*models.GroupExpense, error) {
	args := m.Called(userID, groupID, in)
	e, _ := args.Get(0).(*models.GroupExpense)
	return e, args.Error(1)
}

func (m *MockBudget) GroupDetails(ctx context.Context, userID, groupID string) (*models.GroupDetails, error) {
	args := m.Called(userID, groupID)
	d, _ := args.Get(0).(*models.GroupDetails)
	return d, args.Error(1)
}

func (m *MockBudget) RenameGroup(ctx context.Context, userID, groupID, name string) error {
	return m.Called(userID, groupID, name).Error(0)
}

func (m *MockBudget) DeleteGroup(ctx context.Context, userID, groupID string) error {
	return m.Called(userID, groupID).Error(0)
}

// asUser authenticates every request as the id in the X-Test-User header
func asUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Test-User"); id != "" {
			r = r.WithContext(middleware.WithUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func newRouter(t *testing.T, auth mux.MiddlewareFunc) (*mux.Router, *MockBudget) {
	t.Helper()
	svc := new(MockBudget)
	log := logrus.New()
	log.SetOutput(io.Discard)
	r := mux.NewRouter()
	NewHandler(svc, log).Routes(r, auth)
	return r, svc
}

func do(r http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var m message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m.Message
}

func TestRegister(t *testing.T) {
	r, svc := newRouter(t, asUser)
	svc.On("Register", "ann@example.com", "hunter22").Return(&models.User{ID: "7"}, nil)
	svc.On("Register", "ann@example.com", "x").Return(nil, service.ErrInvalidInput)

	rec := do(r, http.MethodPost, "/api/signup", "", `{"email":"ann@example.com","password":"hunter22"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"New user created!","user_id":"7"}`, rec.Body.String())

	rec = do(r, http.MethodPost, "/api/signup", "", `{"email":"ann@example.com","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	r, svc := newRouter(t, asUser)
	svc.On("Login", "ann@example.com", "nope").Return("", service.ErrInvalidCredentials)

	rec := do(r, http.MethodPost, "/api/login", "", `{"email":"ann@example.com","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Could not verify", messageOf(t, rec))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, svc := newRouter(t, middleware.AuthMiddleware(&config.Config{JWTSecret: "s"}))

	rec := do(r, http.MethodGet, "/api/summary", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token is missing!", messageOf(t, rec))
	svc.AssertNotCalled(t, "Summary", mock.Anything)
}

func TestAddTransaction(t *testing.T) {
	r, svc := newRouter(t, asUser)
	date, _ := models.ParseDate("2025-10-01")
	in := service.TransactionInput{Type: "expense", Category: "Food", Amount: 12.5, Date: date}
	svc.On("AddTransaction", "1", in).Return(&models.Transaction{ID: "55"}, nil)

	rec := do(r, http.MethodPost, "/api/transactions", "1", `{"type":"expense","category":"Food","amount":12.5,"date":"2025-10-01"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Transaction added!", messageOf(t, rec))

	rec = do(r, http.MethodPost, "/api/transactions", "1", `{"date":"yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNumberOfCalls(t, "AddTransaction", 1)
}

func TestDeleteTransaction_NotOwned(t *testing.T) {
	r, svc := newRouter(t, asUser)
	svc.On("DeleteTransaction", "1", "99").Return(service.ErrNotFound)

	rec := do(r, http.MethodDelete, "/api/transactions/99", "1", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, transactionNotFound, messageOf(t, rec))
}

func TestSummary(t *testing.T) {
	r, svc := newRouter(t, asUser)
	svc.On("Summary", "1").Return(&models.Summary{
		TotalIncome: 100, TotalExpense: 40, Balance: 60,
		ExpensesByCategory: []analytics.CategoryTotal{{Category: "Food", Total: 40}},
	}, nil)

	rec := do(r, http.MethodGet, "/api/summary", "1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_income":100,"total_expense":40,"balance":60,"expenses_by_category":[{"_id":"Food","total":40}]}`, rec.Body.String())
}

func TestTrendsPassesRule(t *testing.T) {
	r, svc := newRouter(t, asUser)
	svc.On("Trends", "1", "W-MON").Return(analytics.EmptyTrends(), nil)

	rec := do(r, http.MethodGet, "/api/trends?timeframe_rule=W-MON", "1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"labels":[],"datasets":[]}`, rec.Body.String())
}

func TestInsights_InternalErrorIsHidden(t *testing.T) {
	r, svc := newRouter(t, asUser)
	svc.On("Insights", "1", "weekly").Return(analytics.Insights{}, errors.New("pq: connection refused"))

	rec := do(r, http.MethodGet, "/api/insights?timeframe=weekly", "1", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq")
}

func TestCheckAnomaly(t *testing.T) {
	r, svc := newRouter(t, asUser)
	svc.On("CheckAnomaly", "1", analytics.AnomalyCheck{Amount: 300, Category: "Food"}).
		Return(analytics.AnomalyResult{IsAnomaly: true, Message: "unusual"}, nil)

	rec := do(r, http.MethodPost, "/api/check-anomaly", "1", `{"amount":300,"category":"Food"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"is_anomaly":true,"message":"unusual"}`, rec.Body.String())
}

func TestGroupDetails(t *testing.T) {
	r, svc := newRouter(t, asUser)
	svc.On("GroupDetails", "2", "3").Return(&models.GroupDetails{
		Group:           models.Group{ID: "3", Name: "Trip", CreatedBy: "1", Members: []string{"1", "2"}},
		Expenses:        []models.GroupExpense{},
		Balances:        map[string]decimal.Decimal{"1": decimal.NewFromInt(5), "2": decimal.NewFromInt(-5)},
		MembersDetails:  []models.MemberDetails{{ID: "1", Email: "a@example.com"}, {ID: "2", Email: "b@example.com"}},
		SimplifiedDebts: []analytics.Transfer{{From: "2", To: "1", Amount: decimal.NewFromInt(5)}},
	}, nil)
	svc.On("GroupDetails", "9", "3").Return(nil, service.ErrForbidden)

	rec := do(r, http.MethodGet, "/api/groups/3", "2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, `[{"from":"2","to":"1","amount":"5"}]`, string(body["simplified_debts"]))
	assert.JSONEq(t, `{"1":"5","2":"-5"}`, string(body["balances"]))

	rec = do(r, http.MethodGet, "/api/groups/3", "9", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Permission denied", messageOf(t, rec))
}

func TestInviteMember_UnknownEmail(t *testing.T) {
	r, svc := newRouter(t, asUser)
	svc.On("InviteMember", "1", "3", "ghost@example.com").Return(nil, service.ErrNotFound)

	rec := do(r, http.MethodPost, "/api/groups/3/members", "1", `{"email":"ghost@example.com"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User with that email not found.", messageOf(t, rec))
}

func TestRenameGroup(t *testing.T) {
	r, svc := newRouter(t, asUser)
	svc.On("RenameGroup", "1", "3", "Road trip").Return(nil)

	rec := do(r, http.MethodPut, "/api/groups/3", "1", `{"name":"Road trip"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Group name updated successfully!", messageOf(t, rec))
}

func TestListGoals(t *testing.T) {
	r, svc := newRouter(t, asUser)
	target, _ := models.ParseDate("2026-04-15")
	svc.On("ListGoals", "1").Return([]models.GoalView{{
		Goal:       models.Goal{ID: "10", UserID: "1", Name: "Car", GoalAmount: 12000, TargetDate: target},
		Likelihood: analytics.Likelihood{Level: analytics.SuccessUnknown},
		Advice:     "Add recent income/expense entries to get a success prediction.",
	}}, nil)

	rec := do(r, http.MethodGet, "/api/goals", "1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var goals []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &goals))
	require.Len(t, goals, 1)
	assert.Equal(t, "2026-04-15", goals[0]["target_date"])
	assert.NotContains(t, goals[0], "required_monthly_savings")
	assert.Equal(t, map[string]interface{}{"level": "Unknown", "percentage": float64(0)}, goals[0]["likelihood"])
}
