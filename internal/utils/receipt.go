package utils

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var receiptSeq atomic.Uint64

// NewReceiptNumber mints a globally unique receipt id:
// <prefix>-<epoch-ms>-<seq><entropy>. The process-wide counter keeps
// two mints in the same millisecond distinct; the uuid fragment keeps
// two processes distinct. The payments table enforces uniqueness as a
// final backstop.
func NewReceiptNumber(prefix string) string {
	seq := receiptSeq.Add(1) % 10_000
	entropy := uuid.NewString()[:8]
	return fmt.Sprintf("%s-%d-%04d%s", prefix, time.Now().UnixMilli(), seq, entropy)
}
