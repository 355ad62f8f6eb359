package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "a b c", CollapseWhitespace("  a\t b \n\nc "))
	require.Equal(t, "", CollapseWhitespace(" \n\t"))
}

func TestExtractPrice(t *testing.T) {
	cases := []struct {
		in    string
		value float64
		ok    bool
	}{
		{"$1,299.99", 1299.99, true},
		{"$49.99", 49.99, true},
		{"49", 49, true},
		{"Now: $19.99 (was $39.99)", 19.99, true},
		{"1,000", 1000, true},
		{"Free Shipping", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		value, ok := ExtractPrice(c.in)
		require.Equal(t, c.ok, ok, c.in)
		if ok {
			require.InDelta(t, c.value, value, 0.0001, c.in)
		}
	}
}

func TestExtractPercent(t *testing.T) {
	value, ok := ExtractPercent("17% OFF")
	require.True(t, ok)
	require.InDelta(t, 17.0, value, 0.0001)

	value, ok = ExtractPercent("save 12.5 %")
	require.True(t, ok)
	require.InDelta(t, 12.5, value, 0.0001)

	_, ok = ExtractPercent("no discount")
	require.False(t, ok)
}

func TestExtractInt(t *testing.T) {
	value, ok := ExtractInt("(123)")
	require.True(t, ok)
	require.Equal(t, int64(123), value)

	value, ok = ExtractInt("(1,234)")
	require.True(t, ok)
	require.Equal(t, int64(1234), value)

	_, ok = ExtractInt("no reviews yet")
	require.False(t, ok)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", Truncate("abc", 5))
	require.Equal(t, "abcde...", Truncate("abcdefgh", 5))
}
