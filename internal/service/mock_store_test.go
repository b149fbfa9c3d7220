package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/Dan9191/budget-service/internal/config"
	"github.com/Dan9191/budget-service/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *MockStore) FindUsersByIDs(ctx context.Context, ids []string) ([]models.MemberDetails, error) {
	args := m.Called(ctx, ids)
	out, _ := args.Get(0).([]models.MemberDetails)
	return out, args.Error(1)
}

func (m *MockStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockStore) ListTransactions(ctx context.Context, userID string, f models.TransactionFilter) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, f)
	txs, _ := args.Get(0).([]models.Transaction)
	return txs, args.Error(1)
}

func (m *MockStore) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockStore) CreateGoal(ctx context.Context, g *models.Goal) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockStore) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	args := m.Called(ctx, userID)
	goals, _ := args.Get(0).([]models.Goal)
	return goals, args.Error(1)
}

func (m *MockStore) DeleteGoal(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockStore) CreateGroup(ctx context.Context, g *models.Group) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockStore) FindGroup(ctx context.Context, id string) (*models.Group, error) {
	args := m.Called(ctx, id)
	if g := args.Get(0); g != nil {
		return g.(*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) ListGroupsForMember(ctx context.Context, userID string) ([]models.Group, error) {
	args := m.Called(ctx, userID)
	groups, _ := args.Get(0).([]models.Group)
	return groups, args.Error(1)
}

func (m *MockStore) AddGroupMember(ctx context.Context, groupID, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockStore) RenameGroup(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockStore) DeleteGroup(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) CreateGroupExpense(ctx context.Context, e *models.GroupExpense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockStore) ListGroupExpenses(ctx context.Context, groupID string) ([]models.GroupExpense, error) {
	args := m.Called(ctx, groupID)
	out, _ := args.Get(0).([]models.GroupExpense)
	return out, args.Error(1)
}

var testNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *MockStore) {
	t.Helper()
	store := new(MockStore)
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour, CurrencySymbol: "$"}
	svc := NewService(store, log, cfg)
	svc.now = func() time.Time { return testNow }
	return svc, store
}

func tx(typ, category string, amount float64, date string) models.Transaction {
	d, err := models.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return models.Transaction{Type: typ, Category: category, Amount: amount, Date: d}
}
