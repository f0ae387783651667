package app

import (
	"context"
	"errors"
	"time"

	"fleet-dispatch/internal/admin/repo"
	"fleet-dispatch/internal/duty/domain"
	"fleet-dispatch/internal/shared/logger"
)

type AdminService struct {
	repo   *repo.AdminRepo
	logger *logger.Logger
}

func NewAdminService(r *repo.AdminRepo, log *logger.Logger) *AdminService {
	return &AdminService{repo: r, logger: log}
}

type OverviewResponse struct {
	Timestamp          string                   `json:"timestamp"`
	TotalDuties        int                      `json:"total_duties"`
	Completed          int                      `json:"completed"`
	InProgress         int                      `json:"in_progress"`
	Pending            int                      `json:"pending"`
	DriverDistribution map[string]int           `json:"driver_distribution"`
	FleetStatus        map[string]domain.Status `json:"fleet_status"`
}

// Overview recomputes the dashboard stat cards and the per-driver fleet
// status from the full duty set on every call.
func (s *AdminService) Overview(ctx context.Context) (*OverviewResponse, error) {
	duties, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	distribution, err := s.repo.CountDriversByStatus(ctx)
	if err != nil {
		return nil, err
	}

	total, completed, inProgress, pending := domain.CountByStatus(duties)

	return &OverviewResponse{
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		TotalDuties:        total,
		Completed:          completed,
		InProgress:         inProgress,
		Pending:            pending,
		DriverDistribution: distribution,
		FleetStatus:        domain.LatestStatusPerDriver(duties),
	}, nil
}

// DutyRecords shows one record per driver. "all" takes the driver's
// newest duty; "active" takes the newest duty of drivers that are idle
// and available right now; any lifecycle status takes the driver's
// newest duty holding that status.
func (s *AdminService) DutyRecords(ctx context.Context, filter string) ([]domain.Duty, error) {
	switch filter {
	case "all", "active", string(domain.StatusAssigned), string(domain.StatusInProgress), string(domain.StatusCompleted):
	default:
		return nil, errors.New("unknown filter: " + filter)
	}

	duties, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	grouped := domain.LatestDutyPerDriver(duties)

	var ops map[string]repo.DriverOverview
	if filter == "active" {
		drivers, err := s.repo.ListDrivers(ctx, "")
		if err != nil {
			return nil, err
		}
		ops = make(map[string]repo.DriverOverview, len(drivers))
		for _, d := range drivers {
			ops[d.ID] = d
		}
	}

	records := []domain.Duty{}
	for driverID, ds := range grouped {
		switch filter {
		case "all":
			records = append(records, ds[0])
		case "active":
			op, ok := ops[driverID]
			if ok && op.Active && op.Status == domain.DriverActive {
				records = append(records, ds[0])
			}
		default:
			for _, d := range ds {
				if string(d.Status) == filter {
					records = append(records, d)
					break
				}
			}
		}
	}
	return records, nil
}

// DaywiseReport returns the duties scheduled inside the inclusive
// [from, to] date range.
func (s *AdminService) DaywiseReport(ctx context.Context, from, to string) ([]domain.Duty, error) {
	if _, err := time.Parse("2006-01-02", from); err != nil {
		return nil, errors.New("from must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return nil, errors.New("to must be YYYY-MM-DD")
	}
	return s.repo.ListTasksBetween(ctx, from, to)
}

func (s *AdminService) ListDrivers(ctx context.Context, search string) ([]repo.DriverOverview, error) {
	return s.repo.ListDrivers(ctx, search)
}
