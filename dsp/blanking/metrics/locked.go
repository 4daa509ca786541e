package metrics

import (
	"sync"

	"github.com/cwbudde/algo-blanking/dsp/blanking"
)

// Snapshot is a consistent view of a filter taken at one instant.
type Snapshot struct {
	Stats blanking.Stats
	State blanking.EstimatorState
	Model blanking.NoiseModel
}

// Snapshotter is implemented by sources that can read all collector inputs
// at once. The collector prefers it over three separate reads.
type Snapshotter interface {
	Snapshot() Snapshot
}

func snapshotOf(src Source) Snapshot {
	if s, ok := src.(Snapshotter); ok {
		return s.Snapshot()
	}
	return Snapshot{Stats: src.Stats(), State: src.State(), Model: src.Model()}
}

type lockedSource struct {
	mu  sync.Locker
	src Source
}

// Locked returns a Source that holds mu while reading src. The processing
// loop must hold the same lock around each call to Process. A scrape takes
// the lock once, so every metric of a scrape reflects the same Process
// boundary.
func Locked(mu sync.Locker, src Source) Source {
	return lockedSource{mu: mu, src: src}
}

func (l lockedSource) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return snapshotOf(l.src)
}

func (l lockedSource) Stats() blanking.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Stats()
}

func (l lockedSource) State() blanking.EstimatorState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.State()
}

func (l lockedSource) Model() blanking.NoiseModel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Model()
}
