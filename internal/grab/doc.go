// Package grab implements the gravity well: a controller that collects
// movable bodies inside a vertical capsule around an anchor, keeps a set of
// tracked bodies in sync with each query, and pulls every tracked body
// toward the anchor.
//
// The package is split along the per-tick data flow:
//
//   - [OverlapQuery]: capsule query over a [Space] into a growable buffer
//   - [Tracker]: set-difference reconciliation with grab/release notifications
//   - [PullVelocity]: distance-independent pull with near-anchor damping
//   - [Grabber]: the orchestrator driven by [Grabber.Sync] and [Grabber.Step]
//
// # Example
//
//	g, err := grab.New(grab.Config{Category: "Grabbable", PullStrength: 200, MaxRadius: 10},
//	    grab.Deps{Space: w, Layers: layers, Self: self})
//	if err != nil {
//	    return err
//	}
//	for tick := range ticks {
//	    g.Sync()
//	    g.Step(tick.Pulling, tick.Dt)
//	}
//
// # Thread Safety
//
// A Grabber is NOT thread-safe and performs no background work. Two grabbers
// may track the same body; the last one to call Step within a tick decides
// its velocity.
package grab
