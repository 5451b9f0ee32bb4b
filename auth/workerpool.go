package auth

import (
	"context"
	"sync"
)

// hashRequest is one unit of CPU-bound pbkdf2 work submitted to a Hasher.
type hashRequest struct {
	plaintext string
	encoded   string
	isVerify  bool
	replyTo   chan hashResult
}

type hashResult struct {
	hash string
	ok   bool
	err  error
}

// Hasher offloads password hashing and verification onto a fixed pool of
// worker goroutines, so a burst of login/signup requests can't starve the
// HTTP server's goroutines under pbkdf2's deliberately expensive CPU cost
// (spec.md §5). Grounded on dphaener-conduit's jobs.WorkerPool, scaled down
// to a single in-process queue since password hashing needs no persistence,
// retries, or dead-lettering.
type Hasher struct {
	requests chan hashRequest
	wg       sync.WaitGroup
}

// NewHasher starts workers goroutines pulling from an unbuffered request
// channel. Stop must be called to release them.
func NewHasher(workers int) *Hasher {
	if workers <= 0 {
		workers = 1
	}
	h := &Hasher{requests: make(chan hashRequest)}
	h.wg.Add(workers)
	for range workers {
		go h.run()
	}
	return h
}

func (h *Hasher) run() {
	defer h.wg.Done()
	for req := range h.requests {
		if req.isVerify {
			req.replyTo <- hashResult{ok: VerifyPassword(req.encoded, req.plaintext)}
			continue
		}
		hash, err := HashPassword(req.plaintext)
		req.replyTo <- hashResult{hash: hash, err: err}
	}
}

// Hash hashes plaintext on a worker goroutine, returning ctx.Err() if ctx is
// cancelled before a worker picks up the request.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	reply := make(chan hashResult, 1)
	select {
	case h.requests <- hashRequest{plaintext: plaintext, replyTo: reply}:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case res := <-reply:
		return res.hash, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Verify checks plaintext against encoded on a worker goroutine.
func (h *Hasher) Verify(ctx context.Context, encoded, plaintext string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	reply := make(chan hashResult, 1)
	select {
	case h.requests <- hashRequest{plaintext: plaintext, encoded: encoded, isVerify: true, replyTo: reply}:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Stop closes the request channel and waits for every worker to drain and
// exit. Callers must not call Hash or Verify after Stop returns.
func (h *Hasher) Stop() {
	close(h.requests)
	h.wg.Wait()
}
