package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"

	"comparador/internal/model"
)

//go:embed schema.sql
var schemaSQL string

const insertListing = `
	INSERT INTO product_listings
	(id, run_id, sku, key, title, brand, model, price, currency, shipping, fee_percent, url, image, category, platform, source)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`

// ListingRepository guarda todas as ofertas normalizadas de cada execução.
type ListingRepository struct {
	DB *sql.DB
}

// EnsureSchema cria as tabelas se ainda não existirem.
func (r *ListingRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, schemaSQL)
	return err
}

// SaveRun grava as ofertas em lotes, cada lote numa transação.
func (r *ListingRepository) SaveRun(ctx context.Context, runID uuid.UUID, records []model.Record) error {
	for _, batch := range Chunk(records, defaultBatchSize) {
		if err := r.saveBatch(ctx, runID, batch); err != nil {
			return err
		}
	}
	return nil
}

func (r *ListingRepository) saveBatch(ctx context.Context, runID uuid.UUID, batch []model.Record) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin listings tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertListing)
	if err != nil {
		return fmt.Errorf("prepare listings insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range batch {
		if _, err := stmt.ExecContext(ctx, listingArgs(runID, rec)...); err != nil {
			return fmt.Errorf("insert listing %s: %w", rec.SKU, err)
		}
	}
	return tx.Commit()
}

func listingArgs(runID uuid.UUID, rec model.Record) []any {
	return []any{
		uuid.New(), runID, rec.SKU, rec.Key,
		rec.Title, rec.Brand, rec.Model,
		rec.Price, rec.Currency, rec.Shipping, rec.FeePercent,
		rec.URL, rec.Image, rec.Category, rec.Platform, rec.Source,
	}
}

// CountByRun devolve quantas ofertas uma execução gravou.
func (r *ListingRepository) CountByRun(ctx context.Context, runID uuid.UUID) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM product_listings WHERE run_id = $1`, runID).Scan(&n)
	return n, err
}
