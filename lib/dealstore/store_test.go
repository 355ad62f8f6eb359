package dealstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"dealforge-backend/lib/dealstore/db"
	"dealforge-backend/lib/testutil"
	"dealforge-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestStoreHistory(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "lib/dealstore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	day1 := timezone.Now().Add(-48 * time.Hour).Truncate(time.Second)
	day2 := day1.Add(24 * time.Hour)

	{
		history, err := store.History(ctx, "https://x/1")
		require.NoError(t, err)
		require.Len(t, history, 0)
	}

	committed, err := store.Push(ctx, []Deal{
		{
			Title:        "SSD Deal",
			Link:         "https://x/1",
			PriceText:    ptr("$49.99"),
			PriceNumeric: ptr(49.99),
			Category:     "storage",
			Website:      "slickdeals",
			Active:       true,
			ScrapedAt:    day1,
		},
		{
			Title:        "Gaming Laptop",
			Link:         "https://x/2",
			PriceNumeric: ptr(899.00),
			Category:     "laptops",
			Website:      "newegg",
			Active:       true,
			ScrapedAt:    day1,
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, committed)

	committed, err = store.Push(ctx, []Deal{
		{
			Title:        "SSD Deal",
			Link:         "https://x/1",
			PriceText:    ptr("$39.99"),
			PriceNumeric: ptr(39.99),
			Category:     "storage",
			Website:      "slickdeals",
			Active:       true,
			ScrapedAt:    day2,
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, committed)

	// a repeat observation is a new row, never an overwrite
	history, err := store.History(ctx, "https://x/1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.InDelta(t, 49.99, *history[0].PriceNumeric, 0.0001)
	require.InDelta(t, 39.99, *history[1].PriceNumeric, 0.0001)
	require.True(t, history[0].ScrapedAt.Before(history[1].ScrapedAt))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)

	drops, err := store.Drops(ctx, 20)
	require.NoError(t, err)
	require.Len(t, drops, 1)
	require.Equal(t, "https://x/1", drops[0].Link)
	require.InDelta(t, 10.0, drops[0].Drop, 0.01)
	require.InDelta(t, 20.0, drops[0].DropPercent, 0.01)

	tracked, err := store.TrackedLinks(ctx, 50)
	require.NoError(t, err)
	require.Len(t, tracked, 1)
	require.Equal(t, int64(2), tracked[0].Observations)
}

func TestStorePushAbortsAndKeepsCommittedRows(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "lib/dealstore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	now := timezone.Now()
	batch := make([]Deal, 0, 60)
	for i := 0; i < 60; i++ {
		batch = append(batch, Deal{
			Title:     fmt.Sprintf("Bulk Deal %d", i),
			Link:      fmt.Sprintf("https://x/bulk/%d", i),
			Category:  "bulk",
			Website:   "newegg",
			Active:    true,
			ScrapedAt: now,
		})
	}

	// more than one commit chunk
	committed, err := store.Push(ctx, batch)
	require.NoError(t, err)
	require.Equal(t, 60, committed)

	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()

	committed, err = store.Push(canceled, batch[:10])
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, committed, perr.Committed)
	require.Equal(t, 0, perr.Committed)

	// rows committed before the failed push stay put
	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(60), count)
}

func TestStoreLatestWithBackfilledHistory(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "lib/dealstore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	day1 := timezone.Now().Add(-48 * time.Hour).Truncate(time.Second)
	day2 := day1.Add(24 * time.Hour)

	// the newest observation lands first, then an older one is
	// backfilled, so insertion order disagrees with scrape time
	_, err := store.Push(ctx, []Deal{
		{
			Title:        "SSD Deal",
			Link:         "https://x/1",
			PriceNumeric: ptr(39.99),
			Category:     "storage",
			Website:      "slickdeals",
			Active:       true,
			ScrapedAt:    day2,
		},
	})
	require.NoError(t, err)
	_, err = store.Push(ctx, []Deal{
		{
			Title:        "SSD Deal",
			Link:         "https://x/1",
			PriceNumeric: ptr(49.99),
			Category:     "storage",
			Website:      "slickdeals",
			Active:       true,
			ScrapedAt:    day1,
		},
	})
	require.NoError(t, err)

	// latest goes by scrape time, not row id
	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	require.InDelta(t, 39.99, *latest[0].PriceNumeric, 0.0001)

	// the drops view picks the same row as the latest view
	drops, err := store.Drops(ctx, 20)
	require.NoError(t, err)
	require.Len(t, drops, 1)
	require.InDelta(t, 39.99, drops[0].CurrentPrice, 0.0001)
	require.InDelta(t, 10.0, drops[0].Drop, 0.01)
	require.InDelta(t, 20.0, drops[0].DropPercent, 0.01)
}

func TestStoreSetActive(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "lib/dealstore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, err := store.Push(ctx, []Deal{
		{
			Title:     "Mechanical Keyboard",
			Link:      "https://x/kb",
			Category:  "keyboard",
			Website:   "bensbargains",
			Active:    true,
			ScrapedAt: timezone.Now(),
		},
	})
	require.NoError(t, err)

	err = store.SetActive(ctx, "https://x/kb", false)
	require.NoError(t, err)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 0)

	// history survives deactivation
	history, err := store.History(ctx, "https://x/kb")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.False(t, history[0].Active)
}

func TestStoreCategorySummary(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "lib/dealstore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	now := timezone.Now()
	_, err := store.Push(ctx, []Deal{
		{Title: "Monitor A", Link: "https://x/m1", PriceNumeric: ptr(100.0), Category: "monitor", Website: "newegg", Active: true, ScrapedAt: now},
		{Title: "Monitor B", Link: "https://x/m2", PriceNumeric: ptr(300.0), Category: "monitor", Website: "newegg", Active: true, ScrapedAt: now},
		{Title: "Mouse", Link: "https://x/mo", Category: "mouse", Website: "newegg", Active: true, ScrapedAt: now},
	})
	require.NoError(t, err)

	stats, err := store.CategorySummary(ctx)
	require.NoError(t, err)
	// the priceless mouse row contributes to no category stats
	require.Len(t, stats, 1)
	require.Equal(t, "monitor", stats[0].Category)
	require.Equal(t, int64(2), stats[0].Count)
	require.InDelta(t, 200.0, stats[0].AvgPrice, 0.0001)
	require.InDelta(t, 100.0, stats[0].MinPrice, 0.0001)
	require.InDelta(t, 300.0, stats[0].MaxPrice, 0.0001)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []Deal{
		{
			Title:        "SSD Deal",
			Link:         "https://x/1",
			PriceText:    ptr("$49.99"),
			PriceNumeric: ptr(49.99),
			Category:     "storage",
			Website:      "slickdeals",
			Active:       true,
			ScrapedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "title,link,price_text,price_numeric"))
	require.Contains(t, lines[1], "SSD Deal")
	require.Contains(t, lines[1], "49.99")
	// null fields export as empty cells, not zeroes
	require.Contains(t, lines[1], ",,")
}
