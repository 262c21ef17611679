package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/alertledger/internal/model"
)

func TestClassifyDirection(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantDirection  model.Direction
		wantConfidence float64
	}{
		{
			name:           "debited",
			text:           "inr 500 debited from a/c xx1234",
			wantDirection:  model.DirectionDebit,
			wantConfidence: 0.95,
		},
		{
			name:           "credited",
			text:           "inr 500 credited to your account",
			wantDirection:  model.DirectionCredit,
			wantConfidence: 0.95,
		},
		{
			name:           "nothing recognisable defaults to debit",
			text:           "hello world",
			wantDirection:  model.DirectionDebit,
			wantConfidence: 0.35,
		},
		{
			name:           "empty text",
			text:           "",
			wantDirection:  model.DirectionDebit,
			wantConfidence: 0.35,
		},
		{
			name:           "tie prefers debit at confidence floor",
			text:           "paid received",
			wantDirection:  model.DirectionDebit,
			wantConfidence: 0.4,
		},
		{
			name:           "refund overrides earlier debit mention",
			text:           "inr 500 credited. refund processed for earlier debited transaction.",
			wantDirection:  model.DirectionCredit,
			wantConfidence: 0.85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDirection(tt.text)
			assert.Equal(t, tt.wantDirection, got.Direction)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
		})
	}
}

func TestClassifyDirection_Scores(t *testing.T) {
	t.Run("refund bias", func(t *testing.T) {
		got := ClassifyDirection("inr 500 credited. refund processed for earlier debited transaction.")
		assert.InDelta(t, 4.0, got.DebitScore, 1e-9)
		assert.InDelta(t, 12.0, got.CreditScore, 1e-9)
	})

	t.Run("short form dr counts as a word", func(t *testing.T) {
		got := ClassifyDirection("acct xx12 dr inr 100")
		assert.Equal(t, model.DirectionDebit, got.Direction)
		// substring hit plus whole-word hit
		assert.InDelta(t, 4.0, got.DebitScore, 1e-9)
		assert.InDelta(t, 0.0, got.CreditScore, 1e-9)
	})

	t.Run("short form cr counts as a word", func(t *testing.T) {
		got := ClassifyDirection("acct xx12 cr inr 100")
		assert.Equal(t, model.DirectionCredit, got.Direction)
		assert.InDelta(t, 4.0, got.CreditScore, 1e-9)
	})

	t.Run("failure damps both sides", func(t *testing.T) {
		got := ClassifyDirection("debited and credited transaction failed")
		assert.True(t, got.Failed)
		assert.InDelta(t, 4.0*0.7, got.DebitScore, 1e-9)
		assert.InDelta(t, 6.0*0.7, got.CreditScore, 1e-9)
		assert.Equal(t, model.DirectionCredit, got.Direction)
		assert.InDelta(t, 0.55, got.Confidence, 1e-9)
	})
}

func TestClassifyDirection_ConfidenceBounds(t *testing.T) {
	inputs := []string{
		"",
		"debited",
		"credited",
		"refund",
		"salary credited interest deposit cashback",
		"paid bill fee charged neft imps rtgs",
		"declined",
		"reversed debit",
	}

	for _, in := range inputs {
		got := ClassifyDirection(in)
		assert.GreaterOrEqual(t, got.Confidence, 0.35, in)
		assert.LessOrEqual(t, got.Confidence, 0.95, in)
	}
}
