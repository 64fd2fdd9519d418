package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-monitorv1/internal/model"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "trades.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_RecordAndRecent(t *testing.T) {
	j := openTestJournal(t)

	trades := []model.Trade{
		{
			TradeID: "aaa11111", Symbol: "AAPL", Kind: model.KindStock,
			EntryPrice: 150, Contracts: 10, EntryTime: time.Now(),
			CurrentPrice: 165, PnLDollar: 150, PnLPercent: 10,
			Status: model.StatusClosed,
		},
		{
			TradeID: "bbb22222", Symbol: "TSLA", Kind: model.KindCall,
			EntryPrice: 5.5, StrikePrice: 250, Contracts: 2, EntryTime: time.Now(),
			Status: model.StatusExpired,
		},
	}
	for _, trade := range trades {
		require.NoError(t, j.Record(trade))
	}

	entries, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "bbb22222", entries[0].TradeID)
	assert.Equal(t, "EXPIRED", entries[0].Status)
	assert.Equal(t, 250.0, entries[0].StrikePrice)

	assert.Equal(t, "aaa11111", entries[1].TradeID)
	assert.Equal(t, 165.0, entries[1].ExitPrice)
	assert.InDelta(t, 10.0, entries[1].PnLPercent, 1e-9)
}

func TestJournal_RecentRespectsLimit(t *testing.T) {
	j := openTestJournal(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(model.Trade{
			TradeID: "t", Symbol: "AAPL", Kind: model.KindStock,
			EntryPrice: 100, Contracts: 1, EntryTime: time.Now(),
			Status: model.StatusClosed,
		}))
	}
	entries, err := j.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestJournal_EmptyRecent(t *testing.T) {
	j := openTestJournal(t)
	entries, err := j.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
