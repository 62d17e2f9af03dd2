package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `sku_id, title, brand, image_url, type, category, sub_category,
	gender, primary_color, secondary_colors, design_elements, statement_piece,
	functional_slot, fashion_aesthetics, occasion, season, formality_score, formality_level`

// PostgresProductStore implements ProductStore over the products table.
type PostgresProductStore struct {
	pool *pgxpool.Pool
}

func NewPostgresProductStore(pool *pgxpool.Pool) *PostgresProductStore {
	return &PostgresProductStore{pool: pool}
}

func (s *PostgresProductStore) Get(ctx context.Context, sku string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE sku_id = $1`

	row := s.pool.QueryRow(ctx, query, sku)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, sku)
		}
		return nil, fmt.Errorf("failed to load product %s: %w", sku, err)
	}
	return p, nil
}

func (s *PostgresProductStore) GetMany(ctx context.Context, skus []string) (map[string]*Product, error) {
	if len(skus) == 0 {
		return map[string]*Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE sku_id = ANY($1)`

	rows, err := s.pool.Query(ctx, query, skus)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*Product, len(skus))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out[p.SKU] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return out, nil
}

// ListSKUs returns every product sku, ordered. Used by the precompute CLI.
func (s *PostgresProductStore) ListSKUs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT sku_id FROM products ORDER BY sku_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list skus: %w", err)
	}
	defer rows.Close()

	var skus []string
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, fmt.Errorf("failed to scan sku: %w", err)
		}
		skus = append(skus, sku)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skus: %w", err)
	}
	return skus, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var brand, imageURL, typ, category, subCategory *string
	var gender, primaryColor, formalityLevel, slot *string
	var statement *bool
	var formality *int

	err := row.Scan(
		&p.SKU, &p.Title, &brand, &imageURL, &typ, &category, &subCategory,
		&gender, &primaryColor, &p.SecondaryColors, &p.DesignElements, &statement,
		&slot, &p.Aesthetics, &p.Occasions, &p.Seasons, &formality, &formalityLevel,
	)
	if err != nil {
		return nil, err
	}

	p.Brand = deref(brand)
	p.ImageURL = deref(imageURL)
	p.Type = deref(typ)
	p.Category = deref(category)
	p.SubCategory = deref(subCategory)
	p.Gender = deref(gender)
	p.PrimaryColor = deref(primaryColor)
	p.FormalityLevel = deref(formalityLevel)
	p.Slot = deref(slot)
	if statement != nil {
		p.StatementPiece = *statement
	}
	if formality != nil {
		p.FormalityScore = *formality
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PostgresEdgeStore implements EdgeStore over the compatibility_edges table.
type PostgresEdgeStore struct {
	pool *pgxpool.Pool
}

func NewPostgresEdgeStore(pool *pgxpool.Pool) *PostgresEdgeStore {
	return &PostgresEdgeStore{pool: pool}
}

func (s *PostgresEdgeStore) Neighbors(ctx context.Context, sku string, minScore float64) ([]Edge, error) {
	query := `
		SELECT sku_1, sku_2, target_slot, score::float8
		FROM compatibility_edges
		WHERE sku_1 = $1 AND score >= $2
		ORDER BY score DESC, sku_2 ASC`

	rows, err := s.pool.Query(ctx, query, sku, minScore)
	if err != nil {
		return nil, fmt.Errorf("failed to load neighbors of %s: %w", sku, err)
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		var targetSlot *string
		if err := rows.Scan(&e.From, &e.To, &targetSlot, &e.Score); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		e.TargetSlot = deref(targetSlot)
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}
	return edges, nil
}

func (s *PostgresEdgeStore) PairScores(ctx context.Context, skus []string) (map[PairKey]float64, error) {
	out := make(map[PairKey]float64)
	if len(skus) < 2 {
		return out, nil
	}

	query := `
		SELECT sku_1, sku_2, score::float8
		FROM compatibility_edges
		WHERE sku_1 = ANY($1) AND sku_2 = ANY($1)`

	rows, err := s.pool.Query(ctx, query, skus)
	if err != nil {
		return nil, fmt.Errorf("failed to load pair scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a, b string
		var score float64
		if err := rows.Scan(&a, &b, &score); err != nil {
			return nil, fmt.Errorf("failed to scan pair score: %w", err)
		}
		key := NewPairKey(a, b)
		if score > out[key] {
			out[key] = score
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pair scores: %w", err)
	}
	return out, nil
}

func (s *PostgresEdgeStore) Stats(ctx context.Context) (*GraphStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(DISTINCT sku_1),
		       COALESCE(AVG(score), 0)::float8,
		       COALESCE(MIN(score), 0)::float8,
		       COALESCE(MAX(score), 0)::float8
		FROM compatibility_edges`

	var stats GraphStats
	err := s.pool.QueryRow(ctx, query).Scan(
		&stats.TotalEdges, &stats.UniqueProducts,
		&stats.AverageScore, &stats.MinScore, &stats.MaxScore,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph stats: %w", err)
	}
	return &stats, nil
}

// PostgresLookStore implements LookStore over the precomputed_looks table.
type PostgresLookStore struct {
	pool *pgxpool.Pool
}

func NewPostgresLookStore(pool *pgxpool.Pool) *PostgresLookStore {
	return &PostgresLookStore{pool: pool}
}

func (s *PostgresLookStore) Get(ctx context.Context, sku string) ([]byte, bool, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM precomputed_looks WHERE sku_id = $1`, sku,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load precomputed looks for %s: %w", sku, err)
	}
	return payload, true, nil
}

func (s *PostgresLookStore) Put(ctx context.Context, sku string, payload []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO precomputed_looks (sku_id, payload, generated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (sku_id) DO UPDATE
		SET payload = EXCLUDED.payload, generated_at = EXCLUDED.generated_at`,
		sku, payload)
	if err != nil {
		return fmt.Errorf("failed to store precomputed looks for %s: %w", sku, err)
	}
	return nil
}
