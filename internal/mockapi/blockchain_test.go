package mockapi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trials = 4000

func TestVerifyContentSuccessRate(t *testing.T) {
	g := newTestGenerator(21)
	ok := 0
	for range trials {
		res, err := g.VerifyContent(context.Background(), "https://example.com/post", "")
		require.NoError(t, err)
		if res.Verified {
			ok++
			assert.Regexp(t, `^0x[0-9a-f]{64}$`, res.ContentHash)
			assert.Regexp(t, `^0x[0-9a-f]{64}$`, res.TransactionID)
			assert.GreaterOrEqual(t, res.BlockNumber, 15_000_000)
			assert.Less(t, res.BlockNumber, 16_000_000)
			assert.NotNil(t, res.Timestamp)
			assert.Empty(t, res.Error)
		} else {
			assert.Equal(t, "Content not found on blockchain", res.Error)
			assert.Nil(t, res.Timestamp)
		}
	}
	assert.InDelta(t, 0.8, float64(ok)/trials, 0.04)
}

func TestVerifyContentKeepsGivenHash(t *testing.T) {
	g := newTestGenerator(22)
	for range 50 {
		res, err := g.VerifyContent(context.Background(), "", "0xabc")
		require.NoError(t, err)
		if res.Verified {
			assert.Equal(t, "0xabc", res.ContentHash)
			return
		}
	}
	t.Fatal("no successful verification in 50 attempts")
}

func TestRegisterContentSuccessRate(t *testing.T) {
	g := newTestGenerator(23)
	ok := 0
	for range trials {
		res, err := g.RegisterContent(context.Background(), "https://example.com/post")
		require.NoError(t, err)
		if res.Success {
			ok++
			assert.Len(t, res.ContentHash, 66)
			assert.Len(t, res.TransactionID, 66)
		} else {
			assert.Equal(t, "Failed to register content", res.Error)
		}
	}
	assert.InDelta(t, 0.9, float64(ok)/trials, 0.03)
}

func TestVerifyHash(t *testing.T) {
	g := newTestGenerator(24)
	ok := 0
	for range trials {
		res, err := g.VerifyHash(context.Background(), "url", "https://example.com/a")
		require.NoError(t, err)
		if !res.Verified {
			assert.Equal(t, "Content verification failed", res.Error)
			continue
		}
		ok++
		assert.Equal(t, "https://example.com/a", res.Source)
		assert.NotEqual(t, "https://example.com/a", res.ContentHash)
		require.NotNil(t, res.Timestamp)
		assert.False(t, res.Timestamp.After(fixedNow))
		assert.True(t, res.Timestamp.After(fixedNow.Add(-30*day-time.Second)))
	}
	assert.InDelta(t, 0.7, float64(ok)/trials, 0.04)
}

func TestVerifyHashByHash(t *testing.T) {
	g := newTestGenerator(25)
	for range 50 {
		res, err := g.VerifyHash(context.Background(), "hash", "0xfeed")
		require.NoError(t, err)
		if res.Verified {
			assert.Equal(t, "0xfeed", res.ContentHash)
			assert.Equal(t, "Unknown", res.Source)
			return
		}
	}
	t.Fatal("no successful verification in 50 attempts")
}

func TestTransactionsBlockNumberOnlyWhenConfirmed(t *testing.T) {
	g := newTestGenerator(26)
	for range 20 {
		txs, err := g.Transactions(context.Background())
		require.NoError(t, err)
		require.Len(t, txs, 10)
		for _, tx := range txs {
			assert.Contains(t, transactionTypes, tx.Type)
			assert.Regexp(t, `^0x[0-9a-f]{40}$`, tx.ContentHash)
			if tx.Status == TransactionConfirmed {
				assert.NotNil(t, tx.BlockNumber, tx.ID)
			} else {
				assert.Nil(t, tx.BlockNumber, tx.ID)
			}
		}
	}
}

func TestBlockchainPerformanceClamps(t *testing.T) {
	g := newTestGenerator(27)
	for range 100 {
		m, err := g.BlockchainPerformance(context.Background())
		require.NoError(t, err)
		require.Len(t, m.DailyTransactions, 9)
		assert.Equal(t, 98.7, m.SuccessRate)

		total := 0
		for _, d := range m.DailyTransactions {
			assert.GreaterOrEqual(t, d.Count, 50)
			assert.GreaterOrEqual(t, d.ConfirmationTime, 0.5)
			assert.LessOrEqual(t, d.ConfirmationTime, 5.0)
			total += d.Count
		}
		assert.Equal(t, total, m.TransactionCount)
	}
}
