// Package ledger owns the persisted transaction collection: CRUD plus bulk
// import/export over a single key-value store entry.
package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

// DefaultStorageKey is the store key the collection persists under.
const DefaultStorageKey = "fintrack_transactions"

// Repository persists the full collection as one JSON blob. Every mutation
// reads the collection, changes it in memory, and writes it back, so a
// single mutex serializes the read-modify-write cycle; cost is O(n) per
// mutation.
type Repository struct {
	store kv.Store
	key   string

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// NewRepository wires a repository over the given store and initializes the
// collection to empty on first use.
func NewRepository(ctx context.Context, store kv.Store, key string) (*Repository, error) {
	if key == "" {
		key = DefaultStorageKey
	}
	r := &Repository{
		store: store,
		key:   key,
		now:   time.Now,
		newID: uuid.NewString,
	}

	_, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, &RepositoryError{Op: "init", Err: err}
	}
	if !ok {
		if err := r.save(ctx, []core.Transaction{}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Repository) load(ctx context.Context) ([]core.Transaction, error) {
	data, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, &RepositoryError{Op: "load", Err: err}
	}
	if !ok || len(data) == 0 {
		return []core.Transaction{}, nil
	}
	var txs []core.Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, &RepositoryError{Op: "load", Err: err}
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs, nil
}

func (r *Repository) save(ctx context.Context, txs []core.Transaction) error {
	data, err := json.Marshal(txs)
	if err != nil {
		return &RepositoryError{Op: "save", Err: err}
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return &RepositoryError{Op: "save", Err: err}
	}
	return nil
}

// ListAll returns the persisted collection in store order. Store order
// carries no meaning; consumers re-sort.
func (r *Repository) ListAll(ctx context.Context) ([]core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// FindByID scans for a transaction by id; ok is false when absent.
func (r *Repository) FindByID(ctx context.Context, id string) (core.Transaction, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txs, err := r.load(ctx)
	if err != nil {
		return core.Transaction{}, false, err
	}
	for _, t := range txs {
		if t.ID == id {
			return t, true, nil
		}
	}
	return core.Transaction{}, false, nil
}

// Create assigns a fresh id and audit timestamps, appends the record, and
// persists the full collection.
func (r *Repository) Create(ctx context.Context, dto core.CreateTransaction) (core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txs, err := r.load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}

	now := r.now()
	tx := core.Transaction{
		ID:        r.newID(),
		Type:      dto.Type,
		Category:  dto.Category,
		Amount:    dto.Amount,
		Date:      dto.Date,
		Comment:   dto.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	txs = append(txs, tx)
	if err := r.save(ctx, txs); err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", tx.ID,
		"type", tx.Type,
		"category", tx.Category,
		"amount", tx.Amount)

	return tx, nil
}

// Update merges the provided fields over the stored record. ID and
// CreatedAt are immutable; UpdatedAt is refreshed. Fields left nil in the
// dto stay unchanged, while a non-nil empty comment clears the comment.
func (r *Repository) Update(ctx context.Context, dto core.UpdateTransaction) (core.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txs, err := r.load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}

	idx := -1
	for i, t := range txs {
		if t.ID == dto.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return core.Transaction{}, &NotFoundError{ID: dto.ID}
	}

	tx := txs[idx]
	if dto.Type != nil {
		tx.Type = *dto.Type
	}
	if dto.Category != nil {
		tx.Category = *dto.Category
	}
	if dto.Amount != nil {
		tx.Amount = *dto.Amount
	}
	if dto.Date != nil {
		tx.Date = *dto.Date
	}
	if dto.Comment != nil {
		tx.Comment = *dto.Comment
	}
	tx.UpdatedAt = r.now()

	txs[idx] = tx
	if err := r.save(ctx, txs); err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction updated", "id", tx.ID)
	return tx, nil
}

// Delete removes the record with the given id. The collection is untouched
// when no record matches.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	txs, err := r.load(ctx)
	if err != nil {
		return err
	}

	filtered := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == len(txs) {
		return &NotFoundError{ID: id}
	}

	if err := r.save(ctx, filtered); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// ExportAll returns the full collection, identical to ListAll.
func (r *Repository) ExportAll(ctx context.Context) ([]core.Transaction, error) {
	return r.ListAll(ctx)
}

// ImportAll wholesale-replaces the persisted collection. It is a full
// overwrite, not a merge, and must not interleave with other mutations;
// the repository mutex guarantees that.
func (r *Repository) ImportAll(ctx context.Context, txs []core.Transaction) error {
	if txs == nil {
		return ErrInvalidImport
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.save(ctx, txs); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transactions imported", "count", len(txs))
	return nil
}
