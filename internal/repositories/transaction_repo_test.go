package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/webfinancas/api/internal/models"
)

func TestTransactionFilter_Build_OwnerOnly(t *testing.T) {
	f := TransactionFilter{UserID: 7}

	where, params := f.build()

	assert.Equal(t, "WHERE user_id = $1", where)
	assert.Equal(t, []interface{}{int64(7)}, params)
}

func TestTransactionFilter_Build_AllPredicates(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	f := TransactionFilter{
		UserID:   7,
		Kind:     models.KindExpense,
		Category: "food",
		DateFrom: &from,
		DateTo:   &to,
	}

	where, params := f.build()

	assert.Equal(t, "WHERE user_id = $1 AND kind = $2 AND category ILIKE $3 AND date BETWEEN $4 AND $5", where)
	assert.Equal(t, []interface{}{int64(7), "expense", "%food%", from, to}, params)
}

func TestTransactionFilter_Build_CategoryIsSubstringMatch(t *testing.T) {
	f := TransactionFilter{UserID: 7, Category: "Ali"}

	_, params := f.build()

	assert.Contains(t, params, "%Ali%")
}

func TestTransactionFilter_Build_InvalidKindIgnored(t *testing.T) {
	f := TransactionFilter{UserID: 7, Kind: "transfer"}

	where, params := f.build()

	assert.Equal(t, "WHERE user_id = $1", where)
	assert.Len(t, params, 1)
}

func TestTransactionFilter_Build_SingleDateBoundIgnored(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f := TransactionFilter{UserID: 7, DateFrom: &from}
	where, params := f.build()

	assert.Equal(t, "WHERE user_id = $1", where)
	assert.Len(t, params, 1)

	f = TransactionFilter{UserID: 7, DateTo: &from}
	where, params = f.build()

	assert.Equal(t, "WHERE user_id = $1", where)
	assert.Len(t, params, 1)
}

func TestTransactionFilter_Build_PlaceholderNumberingSkipsUnused(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	// Kind absent: the date range has to take $2 and $3.
	f := TransactionFilter{UserID: 7, DateFrom: &from, DateTo: &to}

	where, params := f.build()

	assert.Equal(t, "WHERE user_id = $1 AND date BETWEEN $2 AND $3", where)
	assert.Len(t, params, 3)
}
