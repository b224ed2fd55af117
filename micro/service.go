package micro

import (
	"context"
	"sync"
)

// Service handles the functions it accepts. Handle reads the request
// payload from in and writes the reply payload to out. Returning an error
// discards whatever was written to out and sends the error message instead.
type Service interface {
	Accepts(fn int32) bool
	Handle(ctx context.Context, fn int32, in *Reader, out *Writer) error
}

// HandlerFunc handles a single function.
type HandlerFunc func(ctx context.Context, in *Reader, out *Writer) error

// Functions is a Service built from a table of handlers.
type Functions map[int32]HandlerFunc

func (f Functions) Accepts(fn int32) bool {
	_, ok := f[fn]
	return ok
}

func (f Functions) Handle(ctx context.Context, fn int32, in *Reader, out *Writer) error {
	return f[fn](ctx, in, out)
}

// registry keeps services in registration order; the first one accepting
// a function handles it.
type registry struct {
	mu       sync.RWMutex
	services []Service
}

func (r *registry) add(svc Service) {
	r.mu.Lock()
	r.services = append(r.services, svc)
	r.mu.Unlock()
}

func (r *registry) lookup(fn int32) Service {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, svc := range r.services {
		if svc.Accepts(fn) {
			return svc
		}
	}
	return nil
}
