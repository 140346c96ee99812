package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// OpRecorder receives one observation per storage operation.
type OpRecorder interface {
	RecordStorageOp(operation, backend, status string)
}

// retryStore decorates a backend with a bounded retry for transient errors
// and per-operation metrics. Not-found is never retried, and Put is not
// retried either since the reader may already be consumed.
type retryStore struct {
	inner    Store
	backend  string
	recorder OpRecorder
	attempts int
	baseWait time.Duration
}

// Instrument wraps a backend with retries and metrics. recorder may be nil.
func Instrument(inner Store, backend string, recorder OpRecorder) Store {
	return &retryStore{
		inner:    inner,
		backend:  backend,
		recorder: recorder,
		attempts: 3,
		baseWait: 100 * time.Millisecond,
	}
}

func (r *retryStore) Put(ctx context.Context, key string, content io.Reader, contentType string) error {
	err := r.inner.Put(ctx, key, content, contentType)
	r.record("put", err)
	return err
}

func (r *retryStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			if werr := r.wait(ctx, attempt); werr != nil {
				break
			}
		}
		rc, err = r.inner.Get(ctx, key)
		if err == nil || !isTransient(err) {
			break
		}
	}
	r.record("get", err)
	return rc, err
}

func (r *retryStore) Delete(ctx context.Context, key string) error {
	var err error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			if werr := r.wait(ctx, attempt); werr != nil {
				break
			}
		}
		err = r.inner.Delete(ctx, key)
		if err == nil || !isTransient(err) {
			break
		}
	}
	r.record("delete", err)
	return err
}

func (r *retryStore) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := r.inner.Exists(ctx, key)
	r.record("exists", err)
	return ok, err
}

func (r *retryStore) Ping(ctx context.Context) error {
	return r.inner.Ping(ctx)
}

func (r *retryStore) wait(ctx context.Context, attempt int) error {
	delay := r.baseWait << (attempt - 1)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *retryStore) record(operation string, err error) {
	if r.recorder == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		if errors.Is(err, ErrNotFound) {
			status = "not_found"
		}
	}
	r.recorder.RecordStorageOp(operation, r.backend, status)
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
