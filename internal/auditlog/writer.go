// Package auditlog は注文ごとの人間向けテキスト記録（orders.txt）を追記する。
// DBとは独立した二次記録で、手作業での照合・復旧に使う。
package auditlog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain/model"

	"github.com/pkg/errors"
)

const separator = "========================================="

// FileWriterは1ファイルへの追記を直列化する。
// 1ブロックは1回のwriteでO_APPENDに書くので、他プロセスとも行が混ざらない。
type FileWriter struct {
	mu       sync.Mutex
	path     string
	currency string
	now      func() time.Time
}

func NewFileWriter(path string, currency string) *FileWriter {
	return &FileWriter{
		path:     path,
		currency: currency,
		now:      time.Now,
	}
}

func (w *FileWriter) Path() string {
	return w.path
}

func (w *FileWriter) Name() string {
	return "orders-log"
}

// OnOrderCreated は注文確定後フックとして呼ばれる。
func (w *FileWriter) OnOrderCreated(ctx context.Context, order model.Order, lines []model.CartLine) error {
	return w.AppendOrderRecord(order, lines)
}

// 注文1件分のブロックを追記する。lines は送信されたカートそのまま。
func (w *FileWriter) AppendOrderRecord(order model.Order, lines []model.CartLine) error {
	block := FormatOrderRecord(w.now(), order, lines, w.currency)

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "open orders log")
	}

	if _, err := f.Write([]byte(block)); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "append orders log")
	}
	return f.Close()
}

// ダウンロード用に開く。ファイルが無ければ fs.ErrNotExist。
func (w *FileWriter) Open() (io.ReadCloser, error) {
	return os.Open(w.path)
}

// 注文ログの1ブロック
func FormatOrderRecord(ts time.Time, order model.Order, lines []model.CartLine, currency string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "ORDER DATE: %s\n", ts.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	fmt.Fprintf(&b, "ORDER ID: %d\n", order.ID)
	fmt.Fprintf(&b, "CLIENT: %s %s\n", order.ClientName, order.ClientSurname)
	fmt.Fprintf(&b, "PHONE: %s\n", order.Phone)
	fmt.Fprintf(&b, "ADDRESS: %s, %s, %s\n", order.Address, order.PostalCode, order.City)
	fmt.Fprintf(&b, "TOTAL PRICE: %s %s\n", order.TotalPrice.String(), currency)
	b.WriteString("ITEMS:\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "- Product ID: %d, Quantity: %d\n", l.ProductID, l.Quantity)
	}
	b.WriteString(separator + "\n")

	return b.String()
}
