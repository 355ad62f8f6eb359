package pipeline

import (
	"testing"

	"dealforge-backend/lib/dealstore"

	"github.com/stretchr/testify/require"
)

func TestFindSimilar(t *testing.T) {
	deals := []dealstore.Deal{
		{Title: "Samsung 990 Pro 2TB NVMe SSD", Website: "newegg"},
		{Title: "Samsung 990 Pro 2TB NVMe SSD Heatsink", Website: "slickdeals"},
		{Title: "LG 27 inch UltraGear Monitor", Website: "slickdeals"},
	}

	pairs := FindSimilar(deals, 0.9)
	require.Len(t, pairs, 1)
	require.Equal(t, "newegg", pairs[0].A.Website)
	require.Equal(t, "slickdeals", pairs[0].B.Website)
	require.GreaterOrEqual(t, pairs[0].Score, 0.9)
}

func TestFindSimilarIgnoresSameWebsite(t *testing.T) {
	deals := []dealstore.Deal{
		{Title: "Samsung 990 Pro 2TB NVMe SSD", Website: "newegg"},
		{Title: "Samsung 990 Pro 2TB NVMe SSD", Website: "newegg"},
	}
	require.Empty(t, FindSimilar(deals, 0.9))
}
