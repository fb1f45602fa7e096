package usecase

import "github.com/pixelcast/backend/internal/domain/models"

// Delta describes one stream whose state changed between two polls.
// Snapshot is nil when the stream disappeared from SRS.
type Delta struct {
	Room      string
	StreamKey string
	Snapshot  *models.StreamSnapshot
}

type signature struct {
	present bool
	active  bool
	clients int
}

// StateDiffer reduces poll noise to actual change events. It keeps the
// previous poll generation and emits exactly one delta per changed stream
// key per cycle. Client count is part of the change signature on purpose:
// viewer-count movement is operationally significant.
//
// Not safe for concurrent use; the poller is the only caller.
type StateDiffer struct {
	previous map[string]signature
	// prevSnaps keeps the last seen snapshot per key so a disappearance
	// delta can still name the room it belonged to.
	prevSnaps map[string]models.StreamSnapshot
}

func NewStateDiffer() *StateDiffer {
	return &StateDiffer{
		previous:  make(map[string]signature),
		prevSnaps: make(map[string]models.StreamSnapshot),
	}
}

// Diff compares the new poll generation against the previous one and
// returns the changed streams. The previous generation is replaced
// wholesale afterwards, so every delta of one cycle is computed against
// one consistent prior snapshot.
func (d *StateDiffer) Diff(snapshots []models.StreamSnapshot) []Delta {
	current := make(map[string]signature, len(snapshots))
	currentSnaps := make(map[string]models.StreamSnapshot, len(snapshots))

	for _, s := range snapshots {
		current[s.Key()] = signature{
			present: true,
			active:  s.Publish.Active,
			clients: s.Clients,
		}
		currentSnaps[s.Key()] = s
	}

	var deltas []Delta

	for key, sig := range current {
		if d.previous[key] == sig {
			continue
		}

		snap := currentSnaps[key]
		deltas = append(deltas, Delta{
			Room:      snap.App,
			StreamKey: key,
			Snapshot:  &snap,
		})
	}

	for key := range d.previous {
		if _, stillPresent := current[key]; stillPresent {
			continue
		}

		prev := d.prevSnaps[key]
		deltas = append(deltas, Delta{
			Room:      prev.App,
			StreamKey: key,
			Snapshot:  nil,
		})
	}

	d.previous = current
	d.prevSnaps = currentSnaps

	return deltas
}
