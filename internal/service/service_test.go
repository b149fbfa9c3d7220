package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dan9191/budget-service/internal/models"
	"github.com/Dan9191/budget-service/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	svc, store := newTestService(t)
	store.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "ann@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter22")) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = "7"
	}).Return(nil)

	user, err := svc.Register(context.Background(), "  Ann@Example.com ", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, "7", user.ID)
	assert.Equal(t, "ann@example.com", user.Email)
	store.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.Register(context.Background(), "not-an-email", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), "ann@example.com", "123")
	assert.ErrorIs(t, err, ErrInvalidInput)

	store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, store := newTestService(t)
	store.On("CreateUser", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Register(context.Background(), "ann@example.com", "hunter22")

	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, store := newTestService(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	store.On("FindUserByEmail", mock.Anything, "ann@example.com").
		Return(&models.User{ID: "7", Email: "ann@example.com", PasswordHash: string(hash)}, nil)

	token, err := svc.Login(context.Background(), "ann@example.com", "hunter22")
	require.NoError(t, err)

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return testNow }))
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, testNow.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())

	_, err = svc.Login(context.Background(), "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, store := newTestService(t)
	store.On("FindUserByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound)

	_, err := svc.Login(context.Background(), "nobody@example.com", "hunter22")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAddTransaction_Validation(t *testing.T) {
	date, _ := models.ParseDate("2025-10-01")
	tests := []struct {
		name string
		in   TransactionInput
	}{
		{"bad type", TransactionInput{Type: "transfer", Category: "Food", Amount: 10, Date: date}},
		{"blank category", TransactionInput{Type: "expense", Category: "  ", Amount: 10, Date: date}},
		{"zero amount", TransactionInput{Type: "expense", Category: "Food", Amount: 0, Date: date}},
		{"negative amount", TransactionInput{Type: "income", Category: "Salary", Amount: -5, Date: date}},
		{"missing date", TransactionInput{Type: "expense", Category: "Food", Amount: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			_, err := svc.AddTransaction(context.Background(), "1", tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
			store.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
		})
	}
}

func TestAddTransaction_Normalises(t *testing.T) {
	svc, store := newTestService(t)
	date, _ := models.ParseDate("2025-10-01")
	store.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.UserID == "1" && tx.Type == "expense" && tx.Category == "Food"
	})).Return(nil)

	tx, err := svc.AddTransaction(context.Background(), "1", TransactionInput{
		Type: " Expense", Category: "Food ", Amount: 12.5, Date: date,
	})

	require.NoError(t, err)
	assert.Equal(t, 12.5, tx.Amount)
	store.AssertExpectations(t)
}

func TestUpdateTransaction_NotOwned(t *testing.T) {
	svc, store := newTestService(t)
	date, _ := models.ParseDate("2025-10-01")
	store.On("UpdateTransaction", mock.Anything, mock.Anything).Return(repository.ErrNotFound)

	err := svc.UpdateTransaction(context.Background(), "1", "99", TransactionInput{
		Type: "income", Category: "Salary", Amount: 100, Date: date,
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTransaction_StoreFailure(t *testing.T) {
	svc, store := newTestService(t)
	boom := errors.New("connection reset")
	store.On("DeleteTransaction", mock.Anything, "1", "5").Return(boom)

	err := svc.DeleteTransaction(context.Background(), "1", "5")

	assert.ErrorIs(t, err, boom)
}

func TestListTransactions_EmptyIsNotNil(t *testing.T) {
	svc, store := newTestService(t)
	store.On("ListTransactions", mock.Anything, "1", models.TransactionFilter{NewestFirst: true}).Return(nil, nil)

	txs, err := svc.ListTransactions(context.Background(), "1")

	require.NoError(t, err)
	assert.NotNil(t, txs)
	assert.Empty(t, txs)
}
