package forecast

// NextVersion returns one more than the highest existing version, or 1.
func NextVersion(snapshots []Snapshot) int {
	highest := 0
	for _, s := range snapshots {
		if s.Version > highest {
			highest = s.Version
		}
	}
	return highest + 1
}

// Latest returns the most recently created snapshot, breaking CreatedAt ties
// by version. It returns nil for an empty slice.
func Latest(snapshots []Snapshot) *Snapshot {
	var latest *Snapshot
	for i := range snapshots {
		s := &snapshots[i]
		if latest == nil ||
			s.CreatedAt.After(latest.CreatedAt) ||
			(s.CreatedAt.Equal(latest.CreatedAt) && s.Version > latest.Version) {
			latest = s
		}
	}
	if latest == nil {
		return nil
	}
	out := *latest
	return &out
}
