package services

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
)

const (
	firstAccountSeq     = 10000
	firstTransactionSeq = 1000
)

// Sequence is the ledger's identifier generator. Account numbers share one counter
// across both kinds; transaction IDs are ledger-wide and come with a timestamp
// that never goes backwards.
type Sequence struct {
	accountSeq atomic.Int64

	mu       sync.Mutex
	txnSeq   int64
	lastTime time.Time
	now      func() time.Time
}

// NewSequence returns a generator whose first account is <PREFIX>10001 and first
// transaction is TXN1001.
func NewSequence() *Sequence {
	s := &Sequence{txnSeq: firstTransactionSeq, now: time.Now}
	s.accountSeq.Store(firstAccountSeq)
	return s
}

// NextAccountNumber allocates the next account number for kind.
func (s *Sequence) NextAccountNumber(kind domain.AccountKind) string {
	return fmt.Sprintf("%s%d", kind.Prefix(), s.accountSeq.Add(1))
}

// Stamp allocates the next transaction ID and its timestamp.
func (s *Sequence) Stamp() (string, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txnSeq++
	at := s.now().UTC()
	if at.Before(s.lastTime) {
		at = s.lastTime
	}
	s.lastTime = at
	return fmt.Sprintf("TXN%d", s.txnSeq), at
}

var _ domain.Stamper = (*Sequence)(nil)
