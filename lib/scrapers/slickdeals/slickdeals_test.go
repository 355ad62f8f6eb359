package slickdeals

import (
	"strings"
	"testing"

	"dealforge-backend/lib/scrapers"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const listingFixture = `
<html><body>
<div class="bp-c-card">
	<img src="/attachment/ssd.jpg">
	<a href="/f/17482910-crucial-p3-2tb-nvme-ssd-89-99" title="Crucial P3 2TB NVMe SSD $89.99">deal</a>
	<span class="bp-p-dealCard_price">$89.99</span>
	<span class="bp-p-dealCard_originalPrice">$129.99</span>
</div>
<div class="bp-c-card">
	<a href="/f/17482944-logitech-mouse" aria-label="Logitech MX Master 3S Mouse">go</a>
	<span class="bp-p-dealCard_price">$74.99</span>
</div>
<div class="bp-c-card">
	<a href="/login/">Log in</a>
</div>
</body></html>`

func TestParseListing(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingFixture))
	require.NoError(t, err)

	deals := parseListing(doc, scrapers.Listing{
		URL: "https://slickdeals.net/computer-deals/",
	}, scrapers.DefaultExcludedDomains)

	require.Len(t, deals, 2)

	require.Equal(t, "Crucial P3 2TB NVMe SSD $89.99", deals[0]["title"])
	require.Equal(t, "https://slickdeals.net/f/17482910-crucial-p3-2tb-nvme-ssd-89-99", deals[0]["link"])
	require.Equal(t, "$89.99", deals[0]["price_text"])
	require.Equal(t, "$129.99", deals[0]["original_price_text"])
	require.Equal(t, "https://slickdeals.net/attachment/ssd.jpg", deals[0]["image_url"])
	require.Equal(t, "computer-deals", deals[0]["category"])

	// title falls back to aria-label when the title attribute is missing
	require.Equal(t, "Logitech MX Master 3S Mouse", deals[1]["title"])
}

func TestCategoryFromURL(t *testing.T) {
	require.Equal(t, "computer-deals", categoryFromURL("https://slickdeals.net/computer-deals/"))
	require.Equal(t, "laptop-deals", categoryFromURL("https://slickdeals.net/laptop-deals/?filters%5Brating%5D=frontpage"))
	require.Equal(t, "deals", categoryFromURL("https://slickdeals.net/"))
}
