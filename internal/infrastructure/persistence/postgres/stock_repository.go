package postgres

import (
	"context"
	"database/sql"

	domainErrors "github.com/yuzvak/fulfillment-service/internal/domain/errors"
	"github.com/yuzvak/fulfillment-service/internal/domain/order"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/monitoring"
)

type StockRepository struct {
	db *sql.DB
}

func NewStockRepository(conn *Connection) *StockRepository {
	return &StockRepository{
		db: conn.GetDB(),
	}
}

func (r *StockRepository) Exists(ctx context.Context, productNum string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM stock WHERE product_num = $1)
	`

	var exists bool
	row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "stock", query, productNum)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *StockRepository) GetDetails(ctx context.Context, productNum string) (*order.Product, error) {
	query := `
		SELECT product_num, description, price, stock_level
		FROM stock
		WHERE product_num = $1
	`

	var pr order.Product
	row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "stock", query, productNum)
	err := row.Scan(&pr.ProductNum, &pr.Description, &pr.Price, &pr.Quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, err
	}

	return &pr, nil
}

// DecrementStock only succeeds while enough units remain; the
// conditional UPDATE makes concurrent sales race safely.
func (r *StockRepository) DecrementStock(ctx context.Context, productNum string, quantity int) (bool, error) {
	query := `
		UPDATE stock
		SET stock_level = stock_level - $2
		WHERE product_num = $1 AND stock_level >= $2
	`

	result, err := monitoring.InstrumentExec(ctx, r.db, "UPDATE", "stock", query, productNum, quantity)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *StockRepository) IncrementStock(ctx context.Context, productNum string, quantity int) error {
	query := `
		UPDATE stock
		SET stock_level = stock_level + $2
		WHERE product_num = $1
	`

	result, err := monitoring.InstrumentExec(ctx, r.db, "UPDATE", "stock", query, productNum, quantity)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrProductNotFound
	}

	return nil
}

func (r *StockRepository) SetStockLevel(ctx context.Context, productNum string, quantity int) error {
	query := `
		UPDATE stock
		SET stock_level = $2
		WHERE product_num = $1
	`

	result, err := monitoring.InstrumentExec(ctx, r.db, "UPDATE", "stock", query, productNum, quantity)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domainErrors.ErrProductNotFound
	}

	return nil
}
