package bookingnum

import (
	"context"
	"sync"
)

// SequenceProvider owns the monotonic counters behind booking numbers, keyed
// by scope strings such as "year_month_2407" or "yacht_spectre". A provider
// backed by a database is expected to increment atomically (for example
// `UPDATE ... RETURNING`); the generator serializes its issued set but not
// provider access.
type SequenceProvider interface {
	// Next advances the counter for key and returns the new value.
	Next(ctx context.Context, key string) (int64, error)
	// Set overwrites the counter for key unconditionally.
	Set(ctx context.Context, key string, value int64) error
	// Reset drops every counter owned by the provider.
	Reset(ctx context.Context) error
}

// MemoryProvider is the default in-process SequenceProvider. Counters live
// for the lifetime of the value and are not persisted.
type MemoryProvider struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{seqs: make(map[string]int64)}
}

func (p *MemoryProvider) Next(_ context.Context, key string) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seqs[key]++
	return p.seqs[key], nil
}

func (p *MemoryProvider) Set(_ context.Context, key string, value int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seqs[key] = value
	return nil
}

func (p *MemoryProvider) Reset(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seqs = make(map[string]int64)
	return nil
}
