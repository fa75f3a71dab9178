// Package jobs defines the scheduled jobs for daemon mode.
package jobs

import (
	"context"

	"github.com/tranvu/roitrack/internal/tracker"
	"github.com/tranvu/roitrack/pkg/config"
	"github.com/tranvu/roitrack/pkg/logger"
)

// ReportJobName is the registered name of the ROI report job.
const ReportJobName = "roi_report"

// ReportJob runs the full reporting pipeline on a cron schedule.
type ReportJob struct {
	runner *tracker.Runner
	cfg    *config.Config
	logger *logger.Logger
}

// NewReportJob creates the report job.
func NewReportJob(runner *tracker.Runner, cfg *config.Config, log *logger.Logger) *ReportJob {
	return &ReportJob{
		runner: runner,
		cfg:    cfg,
		logger: log,
	}
}

// Name returns the job name
func (j *ReportJob) Name() string {
	return ReportJobName
}

// Schedule returns the configured cron schedule.
func (j *ReportJob) Schedule() string {
	return j.cfg.Report.Schedule
}

// Run executes one reporting cycle. The runner already notifies and
// logs its own failures; the returned error only feeds job history.
func (j *ReportJob) Run(ctx context.Context) error {
	return j.runner.Run(ctx)
}
