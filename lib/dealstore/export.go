package dealstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var exportHeader = []string{
	"title", "link", "price_text", "price_numeric", "original_price",
	"discount_percent", "category", "website", "rating", "reviews_count",
	"image_url", "description", "availability", "in_stock",
	"shipping_cost", "is_active", "scraped_at",
}

// WriteCSV writes deals as delimited text with a header row. Null
// fields come out as empty cells.
func WriteCSV(w io.Writer, deals []Deal) error {
	out := csv.NewWriter(w)
	err := out.Write(exportHeader)
	if err != nil {
		return err
	}
	for _, deal := range deals {
		err := out.Write([]string{
			deal.Title,
			deal.Link,
			strCell(deal.PriceText),
			floatCell(deal.PriceNumeric),
			floatCell(deal.OriginalPrice),
			floatCell(deal.DiscountPercent),
			deal.Category,
			deal.Website,
			floatCell(deal.Rating),
			intCell(deal.ReviewsCount),
			strCell(deal.ImageURL),
			strCell(deal.Description),
			strCell(deal.Availability),
			boolCell(deal.InStock),
			floatCell(deal.ShippingCost),
			strconv.FormatBool(deal.Active),
			deal.ScrapedAt.Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// Export writes one timestamped csv per invocation under dir and
// returns the file path.
func Export(dir string, deals []Deal, now time.Time) (string, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("deals_%s.csv", now.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	err = WriteCSV(f, deals)
	if err != nil {
		return "", err
	}
	return path, nil
}

func strCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intCell(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func boolCell(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
