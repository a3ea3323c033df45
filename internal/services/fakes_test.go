package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"fintrack/internal/core"
)

type fakePublisher struct {
	mu        sync.Mutex
	published []int64
	err       error
}

func (p *fakePublisher) PublishTransactionSync(_ context.Context, id, _ int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, id)
	return nil
}

type fakeTxStore struct {
	insertFn func(context.Context, core.Transaction) (core.Transaction, error)
	listFn   func(context.Context, core.TransactionFilter) ([]core.Transaction, error)
}

func (f *fakeTxStore) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	return f.insertFn(ctx, t)
}

func (f *fakeTxStore) ListTransactions(ctx context.Context, flt core.TransactionFilter) ([]core.Transaction, error) {
	return f.listFn(ctx, flt)
}

func (f *fakeTxStore) GetTransaction(context.Context, int64) (core.Transaction, error) {
	return core.Transaction{}, core.ErrNotFound
}

// fakeReceiptStore keeps uploads in memory and can fail uploads by name.
type fakeReceiptStore struct {
	mu       sync.Mutex
	files    map[string][]byte
	failOn   func(name string) bool
	deleted  []string
	uploaded int
}

func newFakeReceiptStore() *fakeReceiptStore {
	return &fakeReceiptStore{files: map[string][]byte{}}
}

func (s *fakeReceiptStore) Upload(_ context.Context, name string, data io.Reader, _ string) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if s.failOn != nil && s.failOn(name) {
		return errors.New("store unavailable")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = b
	s.uploaded++
	return nil
}

func (s *fakeReceiptStore) List(context.Context) ([]core.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Receipt
	for n, b := range s.files {
		out = append(out, core.Receipt{Name: n, Size: int64(len(b))})
	}
	return out, nil
}

func (s *fakeReceiptStore) Download(_ context.Context, name string) (io.ReadCloser, core.Receipt, error) {
	return nil, core.Receipt{}, core.ErrNotFound
}

func (s *fakeReceiptStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, name)
	delete(s.files, name)
	return nil
}

func (s *fakeReceiptStore) PublicURL(name string) (string, error) {
	return "http://files/" + name, nil
}
