package domain

import (
	"testing"
	"time"
)

func dutyAt(driverID string, status Status, createdAt time.Time) Duty {
	return Duty{
		ID:        driverID + "-" + string(status) + createdAt.Format("150405"),
		DriverID:  driverID,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestLatestStatusPerDriver(t *testing.T) {
	base := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	duties := []Duty{
		dutyAt("d1", StatusCompleted, base),
		dutyAt("d1", StatusInProgress, base.Add(2*time.Hour)),
		dutyAt("d1", StatusCompleted, base.Add(time.Hour)),
		dutyAt("d2", StatusAssigned, base),
	}

	got := LatestStatusPerDriver(duties)

	if len(got) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(got))
	}
	if got["d1"] != StatusInProgress {
		t.Errorf("d1: expected newest duty status %q, got %q", StatusInProgress, got["d1"])
	}
	if got["d2"] != StatusAssigned {
		t.Errorf("d2: expected %q, got %q", StatusAssigned, got["d2"])
	}
}

func TestLatestStatusPerDriverOrderIndependent(t *testing.T) {
	base := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	duties := []Duty{
		dutyAt("d1", StatusCompleted, base),
		dutyAt("d1", StatusInProgress, base.Add(time.Hour)),
	}
	reversed := []Duty{duties[1], duties[0]}

	a := LatestStatusPerDriver(duties)
	b := LatestStatusPerDriver(reversed)

	if a["d1"] != b["d1"] {
		t.Fatalf("derivation depends on input order: %q vs %q", a["d1"], b["d1"])
	}
}

func TestLatestStatusPerDriverIsPure(t *testing.T) {
	base := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	duties := []Duty{
		dutyAt("d1", StatusAssigned, base),
		dutyAt("d1", StatusCompleted, base.Add(time.Hour)),
	}

	first := LatestStatusPerDriver(duties)
	second := LatestStatusPerDriver(duties)

	if first["d1"] != second["d1"] {
		t.Fatal("repeated derivation over the same input must agree")
	}
	if duties[0].Status != StatusAssigned || duties[1].Status != StatusCompleted {
		t.Fatal("derivation must not mutate its input")
	}
}

func TestLatestDutyPerDriverSortsNewestFirst(t *testing.T) {
	base := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	duties := []Duty{
		dutyAt("d1", StatusCompleted, base),
		dutyAt("d1", StatusAssigned, base.Add(2*time.Hour)),
		dutyAt("d1", StatusInProgress, base.Add(time.Hour)),
	}

	grouped := LatestDutyPerDriver(duties)
	ds := grouped["d1"]
	if len(ds) != 3 {
		t.Fatalf("expected 3 duties for d1, got %d", len(ds))
	}
	for i := 1; i < len(ds); i++ {
		if ds[i].CreatedAt.After(ds[i-1].CreatedAt) {
			t.Fatalf("duties not sorted newest first at index %d", i)
		}
	}
}

func TestCountByStatus(t *testing.T) {
	base := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	duties := []Duty{
		dutyAt("d1", StatusCompleted, base),
		dutyAt("d2", StatusCompleted, base),
		dutyAt("d3", StatusInProgress, base),
		dutyAt("d4", StatusAssigned, base),
	}

	total, completed, inProgress, pending := CountByStatus(duties)
	if total != 4 || completed != 2 || inProgress != 1 || pending != 1 {
		t.Fatalf("got total=%d completed=%d inProgress=%d pending=%d", total, completed, inProgress, pending)
	}
}
