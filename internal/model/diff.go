package model

// RunDiff describes how a newer run differs from an older one.
// Every list is sorted with SortNames.
type RunDiff struct {
	// OldID and NewID identify the compared runs.
	OldID int64 `json:"old_id"`
	NewID int64 `json:"new_id"`

	// Added lists names present only in the newer run.
	Added []string `json:"added"`

	// Removed lists names present only in the older run.
	Removed []string `json:"removed"`

	// Regressed lists names that were identical before and are now
	// mismatched or failed.
	Regressed []string `json:"regressed"`

	// Fixed lists names that were mismatched or failed before and are now
	// identical.
	Fixed []string `json:"fixed"`
}

// Empty reports whether the runs have the same names and outcomes.
func (d RunDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Regressed) == 0 && len(d.Fixed) == 0
}

// DiffRuns compares older against newer by test name.
// When a run lists a name more than once, the last occurrence wins.
func DiffRuns(older, newer *Run) RunDiff {
	d := RunDiff{
		OldID:     older.ID,
		NewID:     newer.ID,
		Added:     make([]string, 0),
		Removed:   make([]string, 0),
		Regressed: make([]string, 0),
		Fixed:     make([]string, 0),
	}

	before := statusByName(older)
	after := statusByName(newer)

	for name, now := range after {
		was, ok := before[name]
		switch {
		case !ok:
			d.Added = append(d.Added, name)
		case was == StatusIdentical && now != StatusIdentical:
			d.Regressed = append(d.Regressed, name)
		case was != StatusIdentical && now == StatusIdentical:
			d.Fixed = append(d.Fixed, name)
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			d.Removed = append(d.Removed, name)
		}
	}

	SortNames(d.Added)
	SortNames(d.Removed)
	SortNames(d.Regressed)
	SortNames(d.Fixed)
	return d
}

func statusByName(run *Run) map[string]Status {
	m := make(map[string]Status, len(run.Comparisons))
	for _, c := range run.Comparisons {
		m[c.Name] = c.Status()
	}
	return m
}
