package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/agenda-citas-api/internal/domain"
	"github.com/jhoicas/agenda-citas-api/internal/domain/entity"
	"github.com/jhoicas/agenda-citas-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, product_id, quantity, received_at, expires_at, lot_number, supplier, notes`

// BatchRepo lotes sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO batches (`+batchColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.ProductID, b.Quantity, b.ReceivedAt, b.ExpiresAt, b.LotNumber, b.Supplier, b.Notes,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("producto", b.ProductID)
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListByProducts lotes de los productos indicados, más recientes primero.
func (r *BatchRepo) ListByProducts(ctx context.Context, productIDs []string) ([]*entity.Batch, error) {
	if len(productIDs) == 0 {
		return []*entity.Batch{}, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+batchColumns+` FROM batches WHERE product_id = ANY($1) ORDER BY received_at DESC`,
		productIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Batch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	if err := row.Scan(&b.ID, &b.ProductID, &b.Quantity, &b.ReceivedAt, &b.ExpiresAt, &b.LotNumber, &b.Supplier, &b.Notes); err != nil {
		return nil, err
	}
	return &b, nil
}
