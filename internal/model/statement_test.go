package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{input: "debit", want: DirectionDebit},
		{input: "credit", want: DirectionCredit},
		{input: "Debit", wantErr: true},
		{input: "", wantErr: true},
		{input: "income", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatement_GenerateHash(t *testing.T) {
	base := Statement{
		AccountID: "acc1",
		Date:      time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("1250.00"),
		Direction: DirectionDebit,
		RawText:   "debited INR 1,250.00",
	}

	same := base
	same.Amount = decimal.RequireFromString("1250")
	assert.Equal(t, base.GenerateHash(), same.GenerateHash(), "amount scale must not change the hash")

	other := base
	other.Direction = DirectionCredit
	assert.NotEqual(t, base.GenerateHash(), other.GenerateHash())

	otherAccount := base
	otherAccount.AccountID = "acc2"
	assert.NotEqual(t, base.GenerateHash(), otherAccount.GenerateHash())

	otherDay := base
	otherDay.Date = base.Date.AddDate(0, 0, 1)
	assert.NotEqual(t, base.GenerateHash(), otherDay.GenerateHash())

	inferred := base
	inferred.DateInferred = true
	inferredLater := inferred
	inferredLater.Date = base.Date.AddDate(0, 0, 3)
	assert.Equal(t, inferred.GenerateHash(), inferredLater.GenerateHash(), "inferred dates must not change the hash")
	assert.NotEqual(t, base.GenerateHash(), inferred.GenerateHash())
}

func TestFilter_IsEmpty(t *testing.T) {
	assert.True(t, Filter{}.IsEmpty())

	d := DirectionCredit
	assert.False(t, Filter{Direction: &d}.IsEmpty())

	minAmount := decimal.NewFromInt(10)
	assert.False(t, Filter{AmountMin: &minAmount}.IsEmpty())
}
