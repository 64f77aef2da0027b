package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/fencequote/internal/config"
)

const jobTimeout = 2 * time.Minute

// Summarizer builds the weekly pipeline text for one user.
type Summarizer interface {
	WeeklySummary(ctx context.Context, userID string) (string, error)
}

// Alerter texts the contractor.
type Alerter interface {
	SendAlert(ctx context.Context, to, body string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	reports  Summarizer
	alerts   Alerter
	cfg      config.ReportingConfig
	logger   *zap.Logger
	schedule string
}

// NewScheduler creates a scheduler running in the configured timezone. The
// schedule uses the standard five-field cron syntax.
func NewScheduler(cfg config.ReportingConfig, reports Summarizer, alerts Alerter, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	if _, err := cron.ParseStandard(cfg.CronSchedule); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", cfg.CronSchedule, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		reports:  reports,
		alerts:   alerts,
		cfg:      cfg,
		logger:   logger,
		schedule: cfg.CronSchedule,
	}, nil
}

// Start registers the jobs and starts the scheduler. Without a report recipient
// nothing is scheduled.
func (s *Scheduler) Start() {
	if s.cfg.UserID == "" || s.cfg.NotifyPhone == "" {
		s.logger.Info("weekly pipeline report disabled: no recipient configured")
		return
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("timezone", s.cfg.Timezone))
	if _, err := s.cron.AddFunc(s.schedule, s.sendWeeklyReport); err != nil {
		s.logger.Error("failed to schedule weekly report", zap.Error(err))
		return
	}
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendWeeklyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.RunWeeklyReport(ctx); err != nil {
		s.logger.Error("weekly report failed", zap.Error(err))
	}
}

// RunWeeklyReport builds and sends the pipeline summary once.
func (s *Scheduler) RunWeeklyReport(ctx context.Context) error {
	s.logger.Info("generating weekly report", zap.String("user_id", s.cfg.UserID))

	summary, err := s.reports.WeeklySummary(ctx, s.cfg.UserID)
	if err != nil {
		return fmt.Errorf("generate weekly report: %w", err)
	}
	if err := s.alerts.SendAlert(ctx, s.cfg.NotifyPhone, summary); err != nil {
		return fmt.Errorf("send weekly report: %w", err)
	}

	s.logger.Info("weekly report sent successfully")
	return nil
}
