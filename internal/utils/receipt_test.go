package utils

import (
	"strings"
	"sync"
	"testing"
)

func TestNewReceiptNumberShape(t *testing.T) {
	r := NewReceiptNumber("PAY")
	if !strings.HasPrefix(r, "PAY-") {
		t.Fatalf("receipt %q missing prefix", r)
	}
	if len(strings.Split(r, "-")) < 3 {
		t.Fatalf("receipt %q missing segments", r)
	}
}

func TestNewReceiptNumberUniqueUnderConcurrency(t *testing.T) {
	const n = 200

	var mu sync.Mutex
	seen := make(map[string]bool, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := NewReceiptNumber("R")
			mu.Lock()
			seen[r] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("got %d unique receipts out of %d", len(seen), n)
	}
}
