package postgres

import (
	"context"
	"database/sql"
	"fmt"

	domainErrors "github.com/yuzvak/fulfillment-service/internal/domain/errors"
	"github.com/yuzvak/fulfillment-service/internal/domain/order"
	"github.com/yuzvak/fulfillment-service/internal/infrastructure/monitoring"
)

// Order lifecycle in the orders table: waiting -> picking -> picked ->
// collected. NextPickableOrder flips waiting to picking so a crashed
// picker can be recovered by flipping back (ReleaseOrder).
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(conn *Connection) *OrderRepository {
	return &OrderRepository{
		db: conn.GetDB(),
	}
}

func (r *OrderRepository) NextOrderNumber(ctx context.Context) (int, error) {
	query := `SELECT nextval('order_number_seq')`

	var orderNum int
	row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "orders", query)
	if err := row.Scan(&orderNum); err != nil {
		return 0, err
	}

	return orderNum, nil
}

func (r *OrderRepository) SubmitOrder(ctx context.Context, basket *order.Basket) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrOrderFailure, err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (order_num, state, created_at)
		VALUES ($1, 'waiting', NOW())
	`
	if _, err := monitoring.InstrumentTxExec(ctx, tx, "INSERT", "orders", orderQuery, basket.OrderNum); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrOrderFailure, err)
	}

	itemQuery := `
		INSERT INTO order_items (order_num, product_num, description, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, item := range basket.Items() {
		if _, err := monitoring.InstrumentTxExec(ctx, tx, "INSERT", "order_items", itemQuery,
			basket.OrderNum, item.ProductNum, item.Description, item.Price, item.Quantity,
		); err != nil {
			return fmt.Errorf("%w: %v", domainErrors.ErrOrderFailure, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrOrderFailure, err)
	}

	return nil
}

// NextPickableOrder claims the oldest waiting order. SKIP LOCKED keeps
// two pickers from claiming the same row even though this service only
// runs one.
func (r *OrderRepository) NextPickableOrder(ctx context.Context) (*order.Basket, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	claimQuery := `
		UPDATE orders
		SET state = 'picking'
		WHERE order_num = (
			SELECT order_num FROM orders
			WHERE state = 'waiting'
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING order_num
	`

	var orderNum int
	row := monitoring.InstrumentTxQueryRow(ctx, tx, "UPDATE", "orders", claimQuery)
	if err := row.Scan(&orderNum); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	basket, err := r.loadBasket(ctx, tx, orderNum)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return basket, nil
}

func (r *OrderRepository) ReleaseOrder(ctx context.Context, orderNum int) error {
	query := `
		UPDATE orders
		SET state = 'waiting'
		WHERE order_num = $1 AND state = 'picking'
	`

	return r.transition(ctx, query, orderNum)
}

func (r *OrderRepository) MarkOrderPicked(ctx context.Context, orderNum int) error {
	query := `
		UPDATE orders
		SET state = 'picked', picked_at = NOW()
		WHERE order_num = $1 AND state = 'picking'
	`

	return r.transition(ctx, query, orderNum)
}

func (r *OrderRepository) MarkOrderCollected(ctx context.Context, orderNum int) (bool, error) {
	query := `
		UPDATE orders
		SET state = 'collected', collected_at = NOW()
		WHERE order_num = $1 AND state = 'picked'
	`

	result, err := monitoring.InstrumentExec(ctx, r.db, "UPDATE", "orders", query, orderNum)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *OrderRepository) transition(ctx context.Context, query string, orderNum int) error {
	result, err := monitoring.InstrumentExec(ctx, r.db, "UPDATE", "orders", query, orderNum)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrOrderFailure, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrOrderFailure, err)
	}
	if affected == 0 {
		return domainErrors.ErrOrderNotFound
	}

	return nil
}

func (r *OrderRepository) loadBasket(ctx context.Context, tx *sql.Tx, orderNum int) (*order.Basket, error) {
	itemsQuery := `
		SELECT product_num, description, price, quantity
		FROM order_items
		WHERE order_num = $1
		ORDER BY product_num
	`

	rows, err := monitoring.InstrumentTxQuery(ctx, tx, "SELECT", "order_items", itemsQuery, orderNum)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	basket := order.NewBasketWithOrderNum(orderNum)
	for rows.Next() {
		var pr order.Product
		if err := rows.Scan(&pr.ProductNum, &pr.Description, &pr.Price, &pr.Quantity); err != nil {
			return nil, err
		}
		basket.Insert(&pr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return basket, nil
}
