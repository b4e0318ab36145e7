package grab

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerSwapsMembers(t *testing.T) {
	a, b, c := newFakeBody("a", 0, 0, 0), newFakeBody("b", 0, 0, 0), newFakeBody("c", 0, 0, 0)
	owner := &struct{}{}
	tr := NewTracker(owner)

	started, stopped := tr.Reconcile(collidersOf(a, b))
	require.Equal(t, 2, started)
	require.Equal(t, 0, stopped)

	started, stopped = tr.Reconcile(collidersOf(b, c))

	assert.Equal(t, 1, started)
	assert.Equal(t, 1, stopped)
	assert.Equal(t, 2, tr.Len())
	assert.False(t, tr.Contains(a))
	assert.True(t, tr.Contains(b))
	assert.True(t, tr.Contains(c))

	assert.Equal(t, []notice{{true, owner}, {false, owner}}, a.notices)
	assert.Equal(t, []notice{{true, owner}}, b.notices, "b must not be re-notified")
	assert.Equal(t, []notice{{true, owner}}, c.notices)
}

func TestTrackerDuplicateCandidates(t *testing.T) {
	a := newFakeBody("a", 0, 0, 0)
	tr := NewTracker(nil)

	started, _ := tr.Reconcile(collidersOf(a, a, a))

	assert.Equal(t, 1, started)
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, 1, a.grabs())
}

func TestTrackerSkipsDetachedCandidates(t *testing.T) {
	a := newFakeBody("a", 0, 0, 0)
	a.detached = true
	gone := newFakeBody("gone", 0, 0, 0)
	gone.destroyed = true
	tr := NewTracker(nil)

	cands := append(collidersOf(a, gone), fakeCollider{}, nil)
	started, stopped := tr.Reconcile(cands)

	assert.Zero(t, started)
	assert.Zero(t, stopped)
	assert.Zero(t, tr.Len())
	assert.Empty(t, a.notices)
	assert.Empty(t, gone.notices)
}

func TestTrackerReleasesDestroyedBody(t *testing.T) {
	a, b := newFakeBody("a", 0, 0, 0), newFakeBody("b", 0, 0, 0)
	tr := NewTracker(nil)
	tr.Reconcile(collidersOf(a, b))

	a.destroyed = true
	started, stopped := tr.Reconcile(collidersOf(a, b))

	assert.Zero(t, started)
	assert.Equal(t, 1, stopped)
	assert.False(t, tr.Contains(a))
	assert.Equal(t, 1, len(a.notices), "destroyed body must not be notified")
}

func TestTrackerDropAllIdempotent(t *testing.T) {
	a, b := newFakeBody("a", 0, 0, 0), newFakeBody("b", 0, 0, 0)
	tr := NewTracker(nil)

	assert.Zero(t, tr.DropAll())

	tr.Reconcile(collidersOf(a, b))
	b.destroyed = true

	assert.Equal(t, 2, tr.DropAll())
	assert.Zero(t, tr.DropAll())
	assert.Zero(t, tr.DropAll())
	assert.Equal(t, 1, a.releases())
	assert.Zero(t, b.releases())
	assert.Zero(t, tr.Len())
}

func TestTrackerStopGrabTolerantOfNil(t *testing.T) {
	tr := NewTracker(nil)
	assert.NotPanics(t, func() { tr.StopGrab(nil) })
}

func TestTrackerConvergesToLatestResult(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := make([]*fakeBody, 12)
	for i := range pool {
		pool[i] = newFakeBody(fmt.Sprintf("b%d", i), 0, 0, 0)
	}
	tr := NewTracker(nil)

	for round := 0; round < 200; round++ {
		var present []*fakeBody
		for _, b := range pool {
			if rng.Intn(2) == 0 {
				present = append(present, b)
			}
		}
		rng.Shuffle(len(present), func(i, j int) { present[i], present[j] = present[j], present[i] })

		tr.Reconcile(collidersOf(present...))

		want := make(map[Body]bool, len(present))
		for _, b := range present {
			want[b] = true
		}
		got := make(map[Body]bool, tr.Len())
		tr.Each(func(b Body) { got[b] = true })
		require.Equal(t, want, got, "round %d", round)
	}

	for _, b := range pool {
		held := b.grabs() - b.releases()
		if tr.Contains(b) {
			assert.Equal(t, 1, held, b.name)
		} else {
			assert.Equal(t, 0, held, b.name)
		}
	}
}
