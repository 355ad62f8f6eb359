package dealstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dealforge-backend/lib/dealstore/db"
	"dealforge-backend/lib/timezone"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Deal is one observation of an offer at a point in time. A link
// identifies the deal across observations; link+scraped_at identifies
// the observation. Optional fields stay nil rather than zero so that
// aggregation can skip them.
type Deal struct {
	Title           string
	Link            string
	PriceText       *string
	PriceNumeric    *float64
	OriginalPrice   *float64
	DiscountPercent *float64
	Category        string
	Website         string
	Rating          *float64
	ReviewsCount    *int64
	ImageURL        *string
	Description     *string
	Availability    *string
	InStock         *bool
	ShippingCost    *float64
	Active          bool
	ScrapedAt       time.Time
}

// PersistenceError reports a failed batch write along with how many
// rows made it in before the failure. Committed rows are not rolled
// back, partial data beats no data here.
type PersistenceError struct {
	Committed int
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store write failed after %d committed rows: %v", e.Committed, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// commit every N rows to bound transaction size; an interrupted run
// keeps the chunks committed so far
const commitEvery = 50

// Push appends one history row per deal. Existing rows for the same
// link are never updated, a repeat observation is always a new row.
func (s Store) Push(ctx context.Context, deals []Deal) (int, error) {
	committed := 0
	for start := 0; start < len(deals); start += commitEvery {
		end := start + commitEvery
		if end > len(deals) {
			end = len(deals)
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return committed, &PersistenceError{Committed: committed, Err: err}
		}
		txqry := s.qry.WithTx(tx)

		for _, deal := range deals[start:end] {
			err := txqry.CreateDeal(ctx, createParams(deal))
			if err != nil {
				tx.Rollback()
				return committed, &PersistenceError{Committed: committed, Err: err}
			}
		}

		err = tx.Commit()
		if err != nil {
			return committed, &PersistenceError{Committed: committed, Err: err}
		}
		committed = end
	}
	return committed, nil
}

// History returns every observation of a link, oldest first.
func (s Store) History(ctx context.Context, link string) ([]Deal, error) {
	rows, err := s.qry.GetDealHistory(ctx, link)
	if err != nil {
		return nil, err
	}
	deals := make([]Deal, len(rows))
	for i, r := range rows {
		deals[i] = fromRow(r)
	}
	return deals, nil
}

// Latest returns the newest observation per link, active deals only.
func (s Store) Latest(ctx context.Context) ([]Deal, error) {
	rows, err := s.qry.GetLatestDeals(ctx)
	if err != nil {
		return nil, err
	}
	deals := make([]Deal, len(rows))
	for i, r := range rows {
		deals[i] = fromRow(r)
	}
	return deals, nil
}

// All returns every stored observation, newest first.
func (s Store) All(ctx context.Context) ([]Deal, error) {
	rows, err := s.qry.GetAllDeals(ctx)
	if err != nil {
		return nil, err
	}
	deals := make([]Deal, len(rows))
	for i, r := range rows {
		deals[i] = fromRow(r)
	}
	return deals, nil
}

// PriceDrop describes a deal whose latest price sits below the lowest
// price of all earlier observations. Drop and DropPercent are strictly
// positive by construction.
type PriceDrop struct {
	Title        string
	Link         string
	Category     string
	Website      string
	CurrentPrice float64
	LowestBefore float64
	Drop         float64
	DropPercent  float64
	LastSeen     time.Time
}

func (s Store) Drops(ctx context.Context, limit int64) ([]PriceDrop, error) {
	rows, err := s.qry.GetPriceDrops(ctx, limit)
	if err != nil {
		return nil, err
	}
	drops := make([]PriceDrop, len(rows))
	for i, r := range rows {
		drops[i] = PriceDrop{
			Title:        r.Title,
			Link:         r.Link,
			Category:     r.Category,
			Website:      r.Website,
			CurrentPrice: r.CurrentPrice.Float64,
			LowestBefore: r.LowestEarlierPrice.Float64,
			Drop:         r.PriceDrop.Float64,
			DropPercent:  r.DropPercent.Float64,
			LastSeen:     time.Unix(r.LastSeen, 0).In(timezone.Location),
		}
	}
	return drops, nil
}

type TrackedLink struct {
	Link         string
	Title        string
	Observations int64
}

// TrackedLinks lists links observed more than once, most-observed
// first. These are the deals a price history chart has data for.
func (s Store) TrackedLinks(ctx context.Context, limit int64) ([]TrackedLink, error) {
	rows, err := s.qry.GetTrackedLinks(ctx, limit)
	if err != nil {
		return nil, err
	}
	links := make([]TrackedLink, len(rows))
	for i, r := range rows {
		links[i] = TrackedLink{
			Link:         r.Link,
			Title:        r.Title,
			Observations: r.EntryCount,
		}
	}
	return links, nil
}

type CategoryStats struct {
	Category string
	Count    int64
	AvgPrice float64
	MinPrice float64
	MaxPrice float64
}

func (s Store) CategorySummary(ctx context.Context) ([]CategoryStats, error) {
	rows, err := s.qry.GetCategorySummary(ctx)
	if err != nil {
		return nil, err
	}
	stats := make([]CategoryStats, len(rows))
	for i, r := range rows {
		stats[i] = CategoryStats{
			Category: r.Category,
			Count:    r.DealCount,
			AvgPrice: r.AvgPrice.Float64,
			MinPrice: r.MinPrice.Float64,
			MaxPrice: r.MaxPrice.Float64,
		}
	}
	return stats, nil
}

// SetActive flips the active flag on every row of a link. History is
// kept, the deal just stops showing up in the latest view.
func (s Store) SetActive(ctx context.Context, link string, active bool) error {
	return s.qry.SetDealActive(ctx, db.SetDealActiveParams{
		IsActive: active,
		Link:     link,
	})
}

func (s Store) Count(ctx context.Context) (int64, error) {
	return s.qry.CountDeals(ctx)
}

func createParams(deal Deal) db.CreateDealParams {
	return db.CreateDealParams{
		Title:           deal.Title,
		Link:            deal.Link,
		PriceText:       nullString(deal.PriceText),
		PriceNumeric:    nullFloat(deal.PriceNumeric),
		OriginalPrice:   nullFloat(deal.OriginalPrice),
		DiscountPercent: nullFloat(deal.DiscountPercent),
		Category:        deal.Category,
		Website:         deal.Website,
		Rating:          nullFloat(deal.Rating),
		ReviewsCount:    nullInt(deal.ReviewsCount),
		ImageUrl:        nullString(deal.ImageURL),
		Description:     nullString(deal.Description),
		Availability:    nullString(deal.Availability),
		InStock:         nullBool(deal.InStock),
		ShippingCost:    nullFloat(deal.ShippingCost),
		IsActive:        deal.Active,
		ScrapedAt:       deal.ScrapedAt.Unix(),
	}
}

func fromRow(r db.Deal) Deal {
	return Deal{
		Title:           r.Title,
		Link:            r.Link,
		PriceText:       stringPtr(r.PriceText),
		PriceNumeric:    floatPtr(r.PriceNumeric),
		OriginalPrice:   floatPtr(r.OriginalPrice),
		DiscountPercent: floatPtr(r.DiscountPercent),
		Category:        r.Category,
		Website:         r.Website,
		Rating:          floatPtr(r.Rating),
		ReviewsCount:    intPtr(r.ReviewsCount),
		ImageURL:        stringPtr(r.ImageUrl),
		Description:     stringPtr(r.Description),
		Availability:    stringPtr(r.Availability),
		InStock:         boolPtr(r.InStock),
		ShippingCost:    floatPtr(r.ShippingCost),
		Active:          r.IsActive,
		ScrapedAt:       time.Unix(r.ScrapedAt, 0).In(timezone.Location),
	}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func boolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return &v.Bool
}
