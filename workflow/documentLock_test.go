package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireDocumentLock_SerializesSameDocument(t *testing.T) {
	ctx := context.Background()
	release, err := AcquireDocumentLock(ctx, "t1", DocumentSalesOrder, 7)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r, err := AcquireDocumentLock(ctx, "t1", DocumentSalesOrder, 7)
		if err == nil {
			close(acquired)
			r()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second holder entered while the first still held the lock")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second holder never acquired the lock")
	}
}

func TestAcquireDocumentLock_IndependentKeysDoNotBlock(t *testing.T) {
	ctx := context.Background()
	r1, err := AcquireDocumentLock(ctx, "t1", DocumentInvoice, 1)
	require.NoError(t, err)
	defer r1()

	r2, err := AcquireDocumentLock(ctx, "t1", DocumentInvoice, 2)
	require.NoError(t, err)
	r2()
	r3, err := AcquireDocumentLock(ctx, "t2", DocumentInvoice, 1)
	require.NoError(t, err)
	r3()
	r4, err := AcquireDocumentLock(ctx, "t1", DocumentBill, 1)
	require.NoError(t, err)
	r4()
}

func TestAcquireDocumentLock_HonoursContextDeadline(t *testing.T) {
	release, err := AcquireDocumentLock(context.Background(), "t1", DocumentWorkOrder, 3)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = AcquireDocumentLock(ctx, "t1", DocumentWorkOrder, 3)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.ErrorKindDatabase))
}

func TestAcquireDocumentLock_ReleaseIsIdempotentAndForgetsKey(t *testing.T) {
	release, err := AcquireDocumentLock(context.Background(), "t9", DocumentPurchaseOrder, 1)
	require.NoError(t, err)
	release()
	release()

	documentLocks.mu.Lock()
	_, held := documentLocks.locks[documentLockKey("t9", DocumentPurchaseOrder, 1)]
	documentLocks.mu.Unlock()
	assert.False(t, held)
}

func TestRequireStatus_Message(t *testing.T) {
	type status string
	assert.NoError(t, requireStatus("ship", "sales order", status("Confirmed"), status("Confirmed")))

	err := requireStatus("cancel", "sales order", status("Shipped"), status("Draft"), status("Confirmed"))
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.ErrorKindBusinessRule))
	assert.Equal(t, "cannot cancel sales order with status Shipped, must be Draft or Confirmed", err.Error())
}
