package parser

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hamamukku/reviewtrust-backend/internal/db"
)

const readJSONOptions = `format = 'newline_delimited',
				columns = {'rating': 'VARCHAR', 'body': 'VARCHAR', 'dateText': 'VARCHAR', 'type': 'VARCHAR'}`

// ratingExpr mirrors Rating: booleans read as 1/0, anything else that does not
// cast to a number reads as 0.
const ratingExpr = `COALESCE(TRY_CAST(rating AS DOUBLE), CASE rating WHEN 'true' THEN 1.0 ELSE 0.0 END)`

// Parser reads review files through DuckDB's read_json. Ratings that do not
// cast to a number read as 0 instead of failing the file.
type Parser struct {
	db *sql.DB
}

func NewParser() (*Parser, error) {
	database, err := db.GetDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}

	return &Parser{db: database}, nil
}

func (p *Parser) Load(ctx context.Context, path string) ([]Review, error) {
	query := fmt.Sprintf(`
		SELECT
			%s AS rating,
			COALESCE(body, '') AS body,
			COALESCE("dateText", '') AS date_text
		FROM read_json(%s,
				%s
		)
		WHERE COALESCE("type", '') <> '%s'
	`, ratingExpr, quoteLiteral(path), readJSONOptions, KindHistogram)

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, path, err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.Rating, &r.Body, &r.DateText); err != nil {
			return nil, fmt.Errorf("failed to scan review from %s: %w", path, err)
		}
		reviews = append(reviews, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, path, err)
	}

	return reviews, nil
}

type FileStats struct {
	Files          int
	Reviews        int
	Histograms     int
	FiveStarShare  float64
	EmptyBodyShare float64
}

func (p *Parser) GetFileStats(ctx context.Context, paths []string) (FileStats, error) {
	stats := FileStats{Files: len(paths)}
	if len(paths) == 0 {
		return stats, nil
	}

	quoted := make([]string, 0, len(paths))
	for _, path := range paths {
		quoted = append(quoted, quoteLiteral(path))
	}

	query := fmt.Sprintf(`
		WITH records AS (
			SELECT
				COALESCE("type", '') = '%s' AS is_histogram,
				%s AS rating,
				TRIM(COALESCE(body, '')) AS body
			FROM read_json([%s],
				%s
			)
		)
		SELECT
			COUNT(*) FILTER (WHERE NOT is_histogram) AS reviews,
			COUNT(*) FILTER (WHERE is_histogram) AS histograms,
			COALESCE(AVG(CASE WHEN rating >= 5 THEN 100.0 ELSE 0.0 END) FILTER (WHERE NOT is_histogram), 0) AS five_star,
			COALESCE(AVG(CASE WHEN body = '' THEN 100.0 ELSE 0.0 END) FILTER (WHERE NOT is_histogram), 0) AS empty_body
		FROM records
	`, KindHistogram, ratingExpr, strings.Join(quoted, ", "), readJSONOptions)

	err := p.db.QueryRowContext(ctx, query).Scan(&stats.Reviews, &stats.Histograms, &stats.FiveStarShare, &stats.EmptyBodyShare)
	if err != nil {
		return stats, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
