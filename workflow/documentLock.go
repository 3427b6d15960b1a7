package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
)

type DocumentType string

const (
	DocumentPurchaseOrder DocumentType = "purchase_order"
	DocumentSalesOrder    DocumentType = "sales_order"
	DocumentWorkOrder     DocumentType = "work_order"
	DocumentInvoice       DocumentType = "invoice"
	DocumentBill          DocumentType = "bill"
)

func documentLockKey(tenantId string, docType DocumentType, id int) string {
	return fmt.Sprintf("doclock:%s:%s:%d", tenantId, docType, id)
}

// keyedLock is a table of mutexes created on demand and dropped once nobody
// holds or waits for them. Waiting honours context cancellation.
type keyedLock struct {
	mu    sync.Mutex
	locks map[string]*heldLock
}

type heldLock struct {
	ch   chan struct{}
	refs int
}

var documentLocks = &keyedLock{locks: map[string]*heldLock{}}

func (l *keyedLock) acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	hl := l.locks[key]
	if hl == nil {
		hl = &heldLock{ch: make(chan struct{}, 1)}
		l.locks[key] = hl
	}
	hl.refs++
	l.mu.Unlock()

	select {
	case hl.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-hl.ch
				l.unref(key, hl)
			})
		}, nil
	case <-ctx.Done():
		l.unref(key, hl)
		return nil, ctx.Err()
	}
}

func (l *keyedLock) unref(key string, hl *heldLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	hl.refs--
	if hl.refs == 0 {
		delete(l.locks, key)
	}
}

// AcquireDocumentLock serializes read-modify-write sections on one document.
// Inside the process a keyed mutex is taken; with DOCUMENT_LOCKS_REDIS set and
// redis connected, a redis lock on the same key serializes across instances.
// The transaction's SELECT ... FOR UPDATE remains the final guard.
//
// The returned release func must be called once the transaction has ended.
func AcquireDocumentLock(ctx context.Context, tenantId string, docType DocumentType, id int) (func(), error) {
	key := documentLockKey(tenantId, docType, id)
	timeout := config.DocumentLockTimeout()
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	release, err := documentLocks.acquire(waitCtx, key)
	if err != nil {
		return nil, lockError(key, err)
	}

	locker := config.GetRedisLock()
	if locker == nil || !config.RedisDocumentLocks() {
		return release, nil
	}
	lock, err := locker.Obtain(waitCtx, key, timeout+10*time.Second, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(50 * time.Millisecond),
	})
	if err != nil {
		release()
		return nil, lockError(key, err)
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			config.LogError(config.GetLogger(), "workflow", "AcquireDocumentLock", "redis release", key, err)
		}
		release()
	}, nil
}

func lockError(key string, err error) error {
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		return utils.DatabaseError(fmt.Errorf("timed out waiting for %s: %w", key, err))
	}
	return utils.DatabaseError(fmt.Errorf("lock %s: %w", key, err))
}
