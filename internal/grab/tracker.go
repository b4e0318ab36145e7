package grab

import "go.uber.org/zap"

// Tracker keeps the set of bodies a grabber is pulling and issues
// grab/release notifications as the set changes.
type Tracker struct {
	owner   any
	tracked map[Body]struct{}
	gone    map[Body]struct{}
	log     *zap.Logger
}

// NewTracker creates a tracker that reports owner in grab notifications.
func NewTracker(owner any) *Tracker {
	return &Tracker{
		owner:   owner,
		tracked: make(map[Body]struct{}),
		gone:    make(map[Body]struct{}),
		log:     zap.NewNop(),
	}
}

// Reconcile brings the tracked set in line with one query result. Bodies no
// longer present are released, bodies seen for the first time are grabbed,
// and bodies present in both keep their grab without a new notification.
func (t *Tracker) Reconcile(candidates []Collider) (started, stopped int) {
	for b := range t.tracked {
		t.gone[b] = struct{}{}
	}
	for _, c := range candidates {
		if b := bodyOf(c); b != nil {
			delete(t.gone, b)
		}
	}
	for b := range t.gone {
		t.StopGrab(b)
		stopped++
	}
	clear(t.gone)

	for _, c := range candidates {
		b := bodyOf(c)
		if b == nil {
			continue
		}
		if _, ok := t.tracked[b]; !ok {
			t.StartGrab(b)
			started++
		}
	}
	return started, stopped
}

// bodyOf resolves a candidate's rigid body. Detached and destroyed bodies
// count as absent.
func bodyOf(c Collider) Body {
	if c == nil {
		return nil
	}
	b := c.Body()
	if b == nil || !b.Valid() {
		return nil
	}
	return b
}

// StartGrab adds a body to the tracked set and notifies its grab state.
func (t *Tracker) StartGrab(b Body) {
	t.tracked[b] = struct{}{}
	if gs := b.GrabState(); gs != nil {
		gs.SetGrabbed(true, t.owner)
	}
	t.log.Debug("grab started", zap.Int("tracked", len(t.tracked)))
}

// StopGrab removes a body from the tracked set. The notification is skipped
// for bodies destroyed since they were grabbed.
func (t *Tracker) StopGrab(b Body) {
	release(b, t.owner)
	delete(t.tracked, b)
	t.log.Debug("grab stopped", zap.Int("tracked", len(t.tracked)))
}

// DropAll releases every tracked body and returns how many were released.
func (t *Tracker) DropAll() int {
	n := len(t.tracked)
	for b := range t.tracked {
		release(b, t.owner)
	}
	clear(t.tracked)
	if n > 0 {
		t.log.Debug("dropped all", zap.Int("released", n))
	}
	return n
}

func release(b Body, owner any) {
	if b == nil || !b.Valid() {
		return
	}
	if gs := b.GrabState(); gs != nil {
		gs.SetGrabbed(false, owner)
	}
}

// Len is the number of tracked bodies.
func (t *Tracker) Len() int { return len(t.tracked) }

// Contains reports whether b is tracked.
func (t *Tracker) Contains(b Body) bool {
	_, ok := t.tracked[b]
	return ok
}

// Each calls fn for every tracked body in no particular order. fn must not
// start or stop grabs.
func (t *Tracker) Each(fn func(Body)) {
	for b := range t.tracked {
		fn(b)
	}
}
