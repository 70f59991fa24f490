package api

import "github.com/mmynk/splitledger/internal/calculator"

// Shares is an ordered set of per-participant amounts, encoded as a JSON
// object whose key order is kept.
type Shares = calculator.Shares

// Share is one participant's amount within Shares.
type Share = calculator.Share

// Group is a shared ledger.
type Group struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Currency   string `json:"currency"`
	InviteCode string `json:"inviteCode"`
	CreatedAt  int64  `json:"createdAt"`
}

// Participant is a member of a group's roster.
type Participant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// Category is a label expenses can be filed under.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Expense is a recorded expense.
type Expense struct {
	ID           string  `json:"id"`
	GroupID      string  `json:"groupId"`
	Description  string  `json:"description"`
	Amount       float64 `json:"amount"`
	PaidBy       Shares  `json:"paidBy"`
	SplitDetails Shares  `json:"splitDetails"`
	Category     string  `json:"category"`
	Date         string  `json:"date"`
	CreatedAt    int64   `json:"createdAt"`
}

// ExpenseInput describes an expense to record.
//
// Either give the shares explicitly in PaidBy and SplitDetails, or list
// participant IDs in Payers and SplitAmong to divide Amount equally among
// them. Explicit shares win when both are set.
type ExpenseInput struct {
	Description  string   `json:"description"`
	Amount       float64  `json:"amount"`
	PaidBy       Shares   `json:"paidBy,omitempty"`
	SplitDetails Shares   `json:"splitDetails,omitempty"`
	Payers       []string `json:"payers,omitempty"`
	SplitAmong   []string `json:"splitAmong,omitempty"`
	Category     string   `json:"category"`
	Date         string   `json:"date"`
}

// GroupEvent reports a change to a watched group.
type GroupEvent struct {
	GroupID  string `json:"groupId"`
	Kind     string `json:"kind"`
	EntityID string `json:"entityId"`
	// At is a Unix timestamp in milliseconds.
	At int64 `json:"at"`
}

type CreateGroupRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
	// Token authorizes further calls on the group.
	Token string `json:"token"`
}

type JoinGroupRequest struct {
	InviteCode string `json:"inviteCode"`
}

type JoinGroupResponse struct {
	Group *Group `json:"group"`
	Token string `json:"token"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group        *Group         `json:"group"`
	Participants []*Participant `json:"participants"`
	Categories   []*Category    `json:"categories"`
}

type AddParticipantRequest struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type AddExpenseRequest struct {
	GroupID string        `json:"groupId"`
	Expense *ExpenseInput `json:"expense"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	GroupID   string        `json:"groupId"`
	ExpenseID string        `json:"expenseId"`
	Expense   *ExpenseInput `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	GroupID string `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type AddCategoryRequest struct {
	GroupID string `json:"groupId"`
	Label   string `json:"label"`
	Icon    string `json:"icon"`
}

type AddCategoryResponse struct {
	Category *Category `json:"category"`
}

type DeleteCategoryRequest struct {
	GroupID    string `json:"groupId"`
	CategoryID string `json:"categoryId"`
}

type DeleteCategoryResponse struct{}

type WatchGroupRequest struct {
	GroupID string `json:"groupId"`
}

type WatchGroupResponse struct {
	Event *GroupEvent `json:"event"`
}
