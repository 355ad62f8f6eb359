package scrapers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShouldExcludeLink(t *testing.T) {
	excluded := DefaultExcludedDomains

	require.True(t, ShouldExcludeLink("", excluded))
	require.True(t, ShouldExcludeLink("#comments", excluded))
	require.True(t, ShouldExcludeLink("https://ad.doubleclick.net/ddm/clk/1", excluded))
	require.True(t, ShouldExcludeLink("https://shop.example.com/cart/", excluded))
	require.True(t, ShouldExcludeLink("javascript:void(0)", excluded))
	require.True(t, ShouldExcludeLink("https://shop.example.com/Help/faq", excluded))

	require.False(t, ShouldExcludeLink("https://shop.example.com/deal/123", excluded))
	require.False(t, ShouldExcludeLink("https://shop.example.com/p/pl?d=laptops", excluded))
}

func TestRegistryFind(t *testing.T) {
	registry := NewRegistry()
	require.Nil(t, registry.Find("missing"))
	require.Empty(t, registry.All())
}
