// Package models defines the persisted domain models for the ledger service.
//
// # Models
//
//   - Group: a shared ledger with a currency and an invite code
//   - Participant: a member of a group's roster
//   - Expense: one entry in a group's history, with per-participant
//     contributions (PaidBy) and obligations (SplitDetails)
//   - Category: a label an expense can be filed under
//
// Balances and settlements are never stored. They are recomputed from the
// roster and the full expense history on every read (see internal/calculator).
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships are expressed with ID strings
// 2. **Opaque dates**: Expense.Date is kept exactly as the client sent it
// 3. **Settlements are expenses**: settling up records an expense in the
//    "settlement" category rather than a separate entity
package models
