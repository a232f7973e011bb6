// Package vectordb queries the restaurant vector index, a Postgres database
// (Supabase) exposing a pgvector similarity function.
package vectordb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/nycscout/agent/agent/contract"
)

type Config struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Store wraps the bun connection to the index database.
type Store struct {
	db *bun.DB
}

func New(cfg Config) (*Store, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("vectordb dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// matchRow mirrors the columns of the match_restaurants function.
type matchRow struct {
	Name            string   `bun:"name"`
	Neighborhood    string   `bun:"neighborhood"`
	Cuisine         string   `bun:"cuisine"`
	PriceTier       string   `bun:"price_tier"`
	Rating          float64  `bun:"rating"`
	Vibes           []string `bun:"vibes,array"`
	IsViral         bool     `bun:"is_viral"`
	SignatureDish   string   `bun:"signature_dish"`
	Description     string   `bun:"description"`
	ProTip          string   `bun:"pro_tip"`
	WaitTimeTypical string   `bun:"wait_time_typical"`
	BestTimeToGo    string   `bun:"best_time_to_go"`
	Similarity      float64  `bun:"similarity"`
}

// Match runs the pgvector similarity function and returns backend records in
// descending similarity order.
func (s *Store) Match(ctx context.Context, embedding []float32, threshold float64, count int) ([]contractx.RestaurantRecord, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", contractx.ErrSearch)
	}

	var rows []matchRow
	err := s.db.NewRaw(
		"SELECT * FROM match_restaurants(?::vector, ?, ?)",
		vectorLiteral(embedding), threshold, count,
	).Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrSearch, err)
	}

	records := make([]contractx.RestaurantRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, contractx.RestaurantRecord{
			Name:            row.Name,
			Neighborhood:    row.Neighborhood,
			Cuisine:         row.Cuisine,
			PriceTier:       row.PriceTier,
			Rating:          row.Rating,
			Vibes:           row.Vibes,
			IsViral:         row.IsViral,
			SignatureDish:   row.SignatureDish,
			Description:     row.Description,
			ProTip:          row.ProTip,
			WaitTimeTypical: row.WaitTimeTypical,
			BestTimeToGo:    row.BestTimeToGo,
			Similarity:      row.Similarity,
		})
	}
	return records, nil
}

// vectorLiteral renders the pgvector input literal, e.g. [0.1,-0.2,0.3].
func vectorLiteral(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
