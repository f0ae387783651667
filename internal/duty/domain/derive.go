package domain

import "sort"

// LatestStatusPerDriver groups duties by driver, orders each group by
// creation time descending and takes the status of the newest duty.
// It is a pure derivation: fleet views recompute it from the full duty
// set on every change instead of maintaining per-driver counters.
func LatestStatusPerDriver(duties []Duty) map[string]Status {
	latest := make(map[string]Duty)
	for _, d := range duties {
		cur, ok := latest[d.DriverID]
		if !ok || d.CreatedAt.After(cur.CreatedAt) {
			latest[d.DriverID] = d
		}
	}

	statuses := make(map[string]Status, len(latest))
	for driverID, d := range latest {
		statuses[driverID] = d.Status
	}
	return statuses
}

// LatestDutyPerDriver returns each driver's duties sorted newest first.
func LatestDutyPerDriver(duties []Duty) map[string][]Duty {
	grouped := make(map[string][]Duty)
	for _, d := range duties {
		grouped[d.DriverID] = append(grouped[d.DriverID], d)
	}
	for driverID := range grouped {
		ds := grouped[driverID]
		sort.Slice(ds, func(i, j int) bool {
			return ds[i].CreatedAt.After(ds[j].CreatedAt)
		})
		grouped[driverID] = ds
	}
	return grouped
}

// CountByStatus tallies the full duty set for the dashboard stat cards.
func CountByStatus(duties []Duty) (total, completed, inProgress, pending int) {
	total = len(duties)
	for _, d := range duties {
		switch d.Status {
		case StatusCompleted:
			completed++
		case StatusInProgress:
			inProgress++
		case StatusAssigned:
			pending++
		}
	}
	return
}
