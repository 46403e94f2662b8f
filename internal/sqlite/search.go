package sqlite

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rpggio/budgetline/internal/domain/cost"
)

// SearchRepository implements cost.SearchRepository for SQLite
type SearchRepository struct {
	db *DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search performs a full-text search over cost vendor, category and description
func (r *SearchRepository) Search(ctx context.Context, projectID, query string, limit int) ([]cost.SearchResult, error) {
	match := matchExpression(query)
	if match == "" {
		return []cost.SearchResult{}, nil
	}

	sqlQuery := `
		SELECT
			c.id, c.project_id, c.amount, c.category, c.vendor, c.description,
			c.date, c.deduction_type, c.created_at, c.updated_at, c.created_by,
			bm25(costs_fts) AS score,
			snippet(costs_fts, 2, '[', ']', '...', 8) AS snippet
		FROM costs_fts
		JOIN costs c ON c.rowid = costs_fts.rowid
		WHERE c.project_id = ? AND costs_fts MATCH ?
		ORDER BY score
	`
	args := []any{projectID, match}
	if limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search costs: %w", err)
	}
	defer rows.Close()

	results := []cost.SearchResult{}
	for rows.Next() {
		var (
			result  cost.SearchResult
			rank    float64
			snippet string
		)
		c, err := scanCost(scanWithExtras{rows: rows, extras: []any{&rank, &snippet}})
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		result.Cost = *c
		result.Rank = rank
		result.Snippet = snippet
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search rows: %w", err)
	}
	return results, nil
}

// scanWithExtras appends trailing destinations to a cost row scan.
type scanWithExtras struct {
	rows   rowScanner
	extras []any
}

func (s scanWithExtras) Scan(dest ...any) error {
	return s.rows.Scan(append(dest, s.extras...)...)
}

// matchExpression turns free text into an FTS5 query of quoted prefix terms.
// Only letters and digits survive, so operators in user input cannot break
// the MATCH syntax.
func matchExpression(query string) string {
	words := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(words))
	for _, w := range words {
		terms = append(terms, `"`+w+`"*`)
	}
	return strings.Join(terms, " ")
}
