package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"comparador/internal/model"
)

const defaultBatchSize = 500

// xmax = 0 só é verdadeiro para linhas recém-inseridas
const upsertWinner = `
	INSERT INTO product_winners
	(sku, key, run_id, title, brand, model, price, currency, shipping, fee_percent, url, image, category, platform, group_size, total_brl, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now())
	ON CONFLICT (sku) DO UPDATE SET
		key = EXCLUDED.key,
		run_id = EXCLUDED.run_id,
		title = EXCLUDED.title,
		brand = EXCLUDED.brand,
		model = EXCLUDED.model,
		price = EXCLUDED.price,
		currency = EXCLUDED.currency,
		shipping = EXCLUDED.shipping,
		fee_percent = EXCLUDED.fee_percent,
		url = EXCLUDED.url,
		image = EXCLUDED.image,
		category = EXCLUDED.category,
		platform = EXCLUDED.platform,
		group_size = EXCLUDED.group_size,
		total_brl = EXCLUDED.total_brl,
		updated_at = now()
	RETURNING (xmax = 0) AS inserted
`

// WinnerRepository publica os vencedores usando o SKU como chave de idempotência.
type WinnerRepository struct {
	DB *pgxpool.Pool
}

// Upsert grava os vencedores em lotes e devolve quantos foram criados e atualizados.
func (r *WinnerRepository) Upsert(ctx context.Context, runID uuid.UUID, winners []model.Winner) (created, updated int, err error) {
	for _, chunk := range Chunk(winners, defaultBatchSize) {
		c, u, err := r.upsertBatch(ctx, runID, chunk)
		created += c
		updated += u
		if err != nil {
			return created, updated, err
		}
	}
	return created, updated, nil
}

func (r *WinnerRepository) upsertBatch(ctx context.Context, runID uuid.UUID, chunk []model.Winner) (created, updated int, err error) {
	batch := &pgx.Batch{}
	for _, w := range chunk {
		batch.Queue(upsertWinner, winnerArgs(runID, w)...)
	}

	results := r.DB.SendBatch(ctx, batch)
	defer results.Close()

	for _, w := range chunk {
		var inserted bool
		if err := results.QueryRow().Scan(&inserted); err != nil {
			return created, updated, fmt.Errorf("upsert winner %s: %w", w.SKU, err)
		}
		if inserted {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}

func winnerArgs(runID uuid.UUID, w model.Winner) []any {
	return []any{
		w.SKU, w.Key, runID,
		w.Title, w.Brand, w.Model,
		w.Price, w.Currency, w.Shipping, w.FeePercent,
		w.URL, w.Image, w.Category, w.Platform,
		w.GroupSize, w.TotalBRL.String(),
	}
}

// FindBySKU devolve o vencedor publicado, ou nil se o SKU não existir.
func (r *WinnerRepository) FindBySKU(ctx context.Context, sku string) (*model.Winner, error) {
	var (
		w     model.Winner
		total string
	)
	err := r.DB.QueryRow(ctx, `
		SELECT sku, key, title, brand, model, price, currency, shipping, fee_percent,
		       url, image, category, platform, group_size, total_brl::text
		FROM product_winners
		WHERE sku = $1
	`, sku).Scan(
		&w.SKU, &w.Key, &w.Title, &w.Brand, &w.Model, &w.Price, &w.Currency, &w.Shipping, &w.FeePercent,
		&w.URL, &w.Image, &w.Category, &w.Platform, &w.GroupSize, &total,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if w.TotalBRL, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parse total_brl %q: %w", total, err)
	}
	return &w, nil
}

// Chunk divide items em lotes de no máximo size elementos.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = defaultBatchSize
	}
	var chunks [][]T
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}
