package devicemgr

import "github.com/emu-tui/emu/internal/domain"

// Transition describes an observed change in a device's Status across two
// merged snapshots. It is the generalization of the teacher's session
// tracker (internal/session/tracker.go), which watched PID changes to detect
// an app relaunch; here we watch Status changes to detect a lifecycle
// transition worth surfacing as a notification (§4.3's state machine).
type Transition struct {
	Identity string
	Platform domain.Platform
	From     domain.StatusKind
	To       domain.StatusKind
}

// Tracker observes successive merged lists and reports transitions. It is
// stateless across calls other than the caller feeding it matching
// old/new pairs; AppState holds no transition history of its own.
type Tracker struct{}

// Observe diffs old against new (both assumed already merged/sorted) and
// returns one Transition per identity whose Status.Kind changed.
func (Tracker) Observe(old, new []domain.Record) []Transition {
	oldByID := make(map[string]domain.Record, len(old))
	for _, r := range old {
		oldByID[r.Identity] = r
	}

	var out []Transition
	for _, n := range new {
		o, ok := oldByID[n.Identity]
		if !ok {
			continue
		}
		if o.Status.Kind != n.Status.Kind {
			out = append(out, Transition{
				Identity: n.Identity,
				Platform: n.Platform,
				From:     o.Status.Kind,
				To:       n.Status.Kind,
			})
		}
	}
	return out
}

// EligibleForOp reports whether op may be attempted on r, enforcing §3
// invariant 3 (physical devices never accept Create/Delete/Wipe) and the
// obvious state-machine constraints of §4.3's diagram.
func EligibleForOp(r domain.Record, op domain.OpKind) bool {
	if r.IsPhysical {
		switch op {
		case domain.OpCreate, domain.OpDelete, domain.OpWipe, domain.OpInstallSystemImage:
			return false
		}
	}
	switch op {
	case domain.OpStart:
		return r.Status.Kind == domain.StatusStopped || r.Status.Kind == domain.StatusError || r.Status.Kind == domain.StatusUnknown
	case domain.OpStop:
		return r.Status.Kind == domain.StatusRunning || r.Status.Kind == domain.StatusStarting
	case domain.OpWipe, domain.OpDelete:
		return r.Status.Kind != domain.StatusRunning && r.Status.Kind != domain.StatusStarting && r.Status.Kind != domain.StatusStopping
	default:
		return true
	}
}
