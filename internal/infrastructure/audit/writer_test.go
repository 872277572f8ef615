package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/yuzvak/fulfillment-service/internal/domain/order"
	"github.com/yuzvak/fulfillment-service/internal/pkg/clock"
)

func TestRecordOrderWritesDetailFile(t *testing.T) {
	dir := t.TempDir()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	w, err := NewWriter(dir, clk)
	assert.NoError(t, err)

	basket := order.NewBasketWithOrderNum(7)
	basket.Insert(order.NewProduct("0001", "40 inch TV", 269.00, 1))

	assert.NoError(t, w.RecordOrder(basket))

	data, err := os.ReadFile(filepath.Join(dir, "orders", "Order7[01-06-2025].txt"))
	assert.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "40 inch TV"))
}

func TestRecordCollectionAppends(t *testing.T) {
	dir := t.TempDir()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	w, err := NewWriter(dir, clk)
	assert.NoError(t, err)

	at := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	assert.NoError(t, w.RecordCollection(4, at))
	assert.NoError(t, w.RecordCollection(5, at.Add(time.Minute)))

	data, err := os.ReadFile(filepath.Join(dir, "CollectedOrders.txt"))
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, 2, len(lines))
	assert.Equal(t, "Order 4 collected at 09:30:00 01/06/2025", lines[0])
	assert.Equal(t, "Order 5 collected at 09:31:00 01/06/2025", lines[1])
}
