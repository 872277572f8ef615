package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yuzvak/fulfillment-service/internal/domain/order"
	"github.com/yuzvak/fulfillment-service/internal/pkg/clock"
)

// Writer appends the durable text records for completed and collected
// orders. Callers treat failures as warnings: a lost record never rolls
// back a sale or a collection.
type Writer struct {
	dir   string
	clock clock.Clock
}

func NewWriter(dir string, clk clock.Clock) (*Writer, error) {
	if err := os.MkdirAll(filepath.Join(dir, "orders"), 0o755); err != nil {
		return nil, err
	}

	return &Writer{
		dir:   dir,
		clock: clk,
	}, nil
}

// RecordOrder writes one file per order, named by order number and day.
func (w *Writer) RecordOrder(basket *order.Basket) error {
	name := fmt.Sprintf("Order%d[%s].txt", basket.OrderNum, w.clock.Now().Format("02-01-2006"))
	path := filepath.Join(w.dir, "orders", name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = fmt.Fprintln(file, basket.Details())
	return err
}

// RecordCollection appends one timestamped line to the shared
// collection log.
func (w *Writer) RecordCollection(orderNum int, at time.Time) error {
	path := filepath.Join(w.dir, "CollectedOrders.txt")

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = fmt.Fprintf(file, "Order %d collected at %s\n", orderNum, at.Format("15:04:05 02/01/2006"))
	return err
}
