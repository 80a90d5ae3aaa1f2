package mpsync

import (
	"encoding/json"
	"sync"

	"github.com/apex/log"
	"github.com/hashicorp/go-uuid"
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
)

type OpType string

const (
	OpAdd    OpType = "add"
	OpUpdate OpType = "update"
	OpDelete OpType = "delete"
)

// PendingOperation is a mutation that couldn't be applied remotely. ID is a
// client-side correlation id so a replayed Add can be matched back to its
// optimistic local record.
type PendingOperation struct {
	ID       string                 `json:"id"`
	Type     OpType                 `json:"type"`
	EntityID int                    `json:"entity_id,omitempty"`
	Entity   *mpmodel.Band          `json:"entity,omitempty"`
	Fields   map[string]interface{} `json:"fields,omitempty"`
}

// PendingQueue is an ordered, durable log of pending operations. Every
// mutation rewrites the persisted form so a restart loses nothing. A missing
// or corrupt persisted value loads as an empty queue.
type PendingQueue struct {
	mu  sync.Mutex
	kv  KV
	ops []PendingOperation
}

func NewPendingQueue(kv KV) *PendingQueue {
	q := &PendingQueue{kv: kv}
	q.load()
	return q
}

func (q *PendingQueue) load() {
	b, ok := q.kv.Get(pendingOpsKey)
	if !ok {
		return
	}

	var ops []PendingOperation
	if err := json.Unmarshal(b, &ops); err != nil {
		// Corrupt persisted state reads as empty, never errors.
		log.Warnf("Discarding unreadable pending-operation state: %s", err)
		return
	}

	q.ops = ops
}

// Enqueue appends op, assigning a correlation id if it has none, and returns
// the stored operation.
func (q *PendingQueue) Enqueue(op PendingOperation) PendingOperation {
	q.mu.Lock()
	defer q.mu.Unlock()

	if op.ID == "" {
		id, err := uuid.GenerateUUID()
		if err == nil {
			op.ID = id
		}
	}

	q.ops = append(q.ops, op)
	q.persist()

	return op
}

// Remove drops the operation with the given correlation id. Removal is by
// identity, not position: replay removes exactly the op that succeeded.
func (q *PendingQueue) Remove(opID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, op := range q.ops {
		if op.ID == opID {
			q.ops = append(q.ops[:i], q.ops[i+1:]...)
			q.persist()
			return
		}
	}
}

// All returns the queued operations in enqueue order.
func (q *PendingQueue) All() []PendingOperation {
	q.mu.Lock()
	defer q.mu.Unlock()

	return append([]PendingOperation(nil), q.ops...)
}

func (q *PendingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.ops)
}

func (q *PendingQueue) persist() {
	b, err := json.Marshal(q.ops)
	if err != nil {
		log.Errorf("Failed marshaling pending operations: %s", err)
		return
	}

	if err := q.kv.Set(pendingOpsKey, b); err != nil {
		log.Errorf("Failed persisting pending operations: %s", err)
	}
}
