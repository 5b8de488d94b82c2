package viewstate

import "sync"

// Fence orders overlapping fetches for one view. Each fetch takes a
// sequence number from Next; a response is applied only if Admit accepts
// it, which happens when no later fetch has been applied yet.
type Fence struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

func (f *Fence) Next() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++
	return f.issued
}

func (f *Fence) Admit(seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq <= f.applied || seq > f.issued {
		return false
	}
	f.applied = seq
	return true
}

// Latest is the sequence number of the last admitted response.
func (f *Fence) Latest() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applied
}
