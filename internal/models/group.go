package models

// Group is a shared ledger.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Currency is the ISO 4217 code every amount in the group is expressed in.
	// Amounts are never converted.
	Currency string

	// InviteCode lets others join the group without an account.
	InviteCode string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Participant is a member of a group's roster.
type Participant struct {
	ID        string
	GroupID   string
	Name      string
	CreatedAt int64
}

// Category is a label expenses can be filed under.
type Category struct {
	ID      string
	GroupID string
	Label   string
	Icon    string
}

// SettlementCategory is the category id given to settle-up expenses.
const SettlementCategory = "settlement"

// DefaultCategories returns the categories every new group starts with.
// GroupID is left empty.
func DefaultCategories() []Category {
	return []Category{
		{ID: "food", Label: "Food", Icon: "🍔"},
		{ID: "transport", Label: "Transport", Icon: "🚕"},
		{ID: "shopping", Label: "Shopping", Icon: "🛍️"},
		{ID: "entertainment", Label: "Entertainment", Icon: "🎬"},
		{ID: "travel", Label: "Travel", Icon: "✈️"},
		{ID: "other", Label: "Other", Icon: "📝"},
	}
}
