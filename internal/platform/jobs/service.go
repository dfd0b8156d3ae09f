package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobcore/internal/domain/notifications"
	"jobcore/internal/domain/payroll"
	"jobcore/internal/platform/config"
)

const JobPeriodGeneration = "payroll_period_generation"

type Service struct {
	DB            *pgxpool.Pool
	Cfg           config.Config
	Payroll       *payroll.Service
	Notifications *notifications.Service
	queue         chan job
}

type job struct {
	Type       string
	EmployerID string
	Run        func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, payrollSvc *payroll.Service, notificationsSvc *notifications.Service) *Service {
	return &Service{
		DB:            db,
		Cfg:           cfg,
		Payroll:       payrollSvc,
		Notifications: notificationsSvc,
		queue:         make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.GenerationInterval > 0 {
		go s.scheduleGeneration(ctx, s.Cfg.GenerationInterval)
	}
}

func (s *Service) Enqueue(jobType, employerID string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, EmployerID: employerID, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "employerId", employerID)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, employerID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, EmployerID: employerID, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "employerId", j.EmployerID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (employer_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, nullIfEmpty(j.EmployerID), j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

// scheduleGeneration periodically catches every employer up on payroll
// periods. The sweep enqueues one job per employer so a slow or failing
// employer does not block the rest.
func (s *Service) scheduleGeneration(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			employerIDs, err := s.listEmployers(ctx)
			if err != nil {
				slog.Warn("generation scheduler employer lookup failed", "err", err)
				continue
			}
			for _, employerID := range employerIDs {
				employer := employerID
				s.Enqueue(JobPeriodGeneration, employer, func(ctx context.Context) (any, error) {
					return s.generateForEmployer(ctx, employer, time.Now().UTC())
				})
			}
		}
	}
}

func (s *Service) generateForEmployer(ctx context.Context, employerID string, asOf time.Time) (any, error) {
	periods, err := s.Payroll.GeneratePeriods(ctx, employerID, asOf)
	if len(periods) > 0 && s.Notifications != nil {
		title := fmt.Sprintf("%d payroll period(s) generated", len(periods))
		body := fmt.Sprintf("Periods up to %s are ready for review.", periods[len(periods)-1].EndingAt.Format(time.RFC3339))
		if nerr := s.Notifications.Create(ctx, employerID, notifications.TypePeriodGenerated, title, body); nerr != nil {
			slog.Warn("generation notification failed", "employerId", employerID, "err", nerr)
		}
	}
	if err != nil && s.Notifications != nil {
		if nerr := s.Notifications.Create(ctx, employerID, notifications.TypeGenerationFailed,
			"Payroll generation failed", err.Error()); nerr != nil {
			slog.Warn("generation failure notification failed", "employerId", employerID, "err", nerr)
		}
	}
	return map[string]any{
		"employerId":       employerID,
		"asOf":             asOf,
		"periodsCommitted": len(periods),
	}, err
}

func (s *Service) listEmployers(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `SELECT id FROM employers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
