package service

import (
	"context"
	"strings"

	"github.com/Dan9191/budget-service/internal/analytics"
	"github.com/Dan9191/budget-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// GroupExpenseInput is the caller-supplied part of a group expense
type GroupExpenseInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// CreateGroup creates a group with the caller as its first member
func (s *Service) CreateGroup(ctx context.Context, userID, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("group name is required")
	}
	g := &models.Group{Name: name, CreatedBy: userID, Members: []string{userID}}
	if err := s.repo.CreateGroup(ctx, g); err != nil {
		return nil, storeErr(err)
	}
	s.log.WithFields(logrus.Fields{"group_id": g.ID, "user_id": userID}).Info("Group created")
	return g, nil
}

// ListGroups returns the groups the caller belongs to
func (s *Service) ListGroups(ctx context.Context, userID string) ([]models.Group, error) {
	groups, err := s.repo.ListGroupsForMember(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if groups == nil {
		groups = []models.Group{}
	}
	return groups, nil
}

// memberGroup loads a group and checks that userID belongs to it
func (s *Service) memberGroup(ctx context.Context, userID, groupID string) (*models.Group, error) {
	g, err := s.repo.FindGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !g.IsMember(userID) {
		return nil, ErrForbidden
	}
	return g, nil
}

// ownedGroup loads a group and checks that userID created it
func (s *Service) ownedGroup(ctx context.Context, userID, groupID string) (*models.Group, error) {
	g, err := s.repo.FindGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr(err)
	}
	if g.CreatedBy != userID {
		return nil, ErrForbidden
	}
	return g, nil
}

// InviteMember adds the user registered under email to the group.
// Inviting an existing member is a no-op.
func (s *Service) InviteMember(ctx context.Context, userID, groupID, email string) (*models.MemberDetails, error) {
	if _, err := s.memberGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, invalid("email is required")
	}
	invitee, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := s.repo.AddGroupMember(ctx, groupID, invitee.ID); err != nil {
		return nil, storeErr(err)
	}
	s.log.WithFields(logrus.Fields{"group_id": groupID, "member_id": invitee.ID}).Info("Group member added")
	return &models.MemberDetails{ID: invitee.ID, Email: invitee.Email}, nil
}

// AddGroupExpense records an expense paid by the caller and split across
// every current member
func (s *Service) AddGroupExpense(ctx context.Context, userID, groupID string, in GroupExpenseInput) (*models.GroupExpense, error) {
	g, err := s.memberGroup(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, invalid("description is required")
	}
	if !in.Amount.IsPositive() {
		return nil, invalid("amount must be a positive number")
	}
	e := &models.GroupExpense{
		GroupID:      g.ID,
		Description:  description,
		Amount:       in.Amount,
		PaidBy:       userID,
		Participants: append([]string(nil), g.Members...),
	}
	if err := s.repo.CreateGroupExpense(ctx, e); err != nil {
		return nil, storeErr(err)
	}
	return e, nil
}

// GroupDetails returns a group with its expenses, balances and settlement plan
func (s *Service) GroupDetails(ctx context.Context, userID, groupID string) (*models.GroupDetails, error) {
	g, err := s.memberGroup(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.ListGroupExpenses(ctx, g.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	members, err := s.repo.FindUsersByIDs(ctx, g.Members)
	if err != nil {
		return nil, storeErr(err)
	}

	shared := make([]analytics.SharedExpense, 0, len(expenses))
	for _, e := range expenses {
		shared = append(shared, analytics.SharedExpense{
			Amount:       e.Amount,
			PaidBy:       e.PaidBy,
			Participants: e.Participants,
		})
	}
	settlement := analytics.Settle(g.Members, shared)

	if expenses == nil {
		expenses = []models.GroupExpense{}
	}
	return &models.GroupDetails{
		Group:           *g,
		Expenses:        expenses,
		Balances:        settlement.Balances,
		MembersDetails:  members,
		SimplifiedDebts: settlement.Transfers,
	}, nil
}

// RenameGroup changes the name of a group the caller created
func (s *Service) RenameGroup(ctx context.Context, userID, groupID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("group name is required")
	}
	if _, err := s.ownedGroup(ctx, userID, groupID); err != nil {
		return err
	}
	return storeErr(s.repo.RenameGroup(ctx, groupID, name))
}

// DeleteGroup removes a group the caller created along with its expenses
func (s *Service) DeleteGroup(ctx context.Context, userID, groupID string) error {
	if _, err := s.ownedGroup(ctx, userID, groupID); err != nil {
		return err
	}
	if err := s.repo.DeleteGroup(ctx, groupID); err != nil {
		return storeErr(err)
	}
	s.log.WithFields(logrus.Fields{"group_id": groupID, "user_id": userID}).Info("Group deleted")
	return nil
}
