package models

import (
	"time"
)

// Transaction kinds. Amounts are stored unsigned; the kind carries the sign.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// ValidKind reports whether kind is one of the two supported transaction kinds.
func ValidKind(kind string) bool {
	return kind == KindIncome || kind == KindExpense
}

type Transaction struct {
	ID          int64
	Description string
	Amount      float64 // always > 0
	Kind        string  // KindIncome or KindExpense
	Date        time.Time
	Category    string
	UserID      int64
}

// Summary holds the aggregated totals per kind for one user.
type Summary struct {
	TotalIncome  float64
	TotalExpense float64
}

// CategorySpending is one row of the expense-by-category breakdown.
type CategorySpending struct {
	Category string
	Total    float64
}

// TransactionPage is the paginated result of a filtered ledger listing.
type TransactionPage struct {
	Items       []*Transaction
	CurrentPage int
	TotalPages  int
	TotalItems  int
}
