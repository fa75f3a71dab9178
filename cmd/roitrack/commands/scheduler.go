package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tranvu/roitrack/internal/api"
	"github.com/tranvu/roitrack/internal/scheduler"
	"github.com/tranvu/roitrack/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the tracker as a daemon",
	Long: `Runs the report job on its cron schedule (REPORT_SCHEDULE) and
serves the status API on PORT.

Subcommands:
  start   - start the scheduler daemon
  list    - list registered jobs

Example:
  go run ./cmd/roitrack scheduler start
  go run ./cmd/roitrack scheduler list`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		Long: `Starts the scheduler with the report job registered and serves the
status API. Stop with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	runner, store, cleanup, err := buildRunner(ctx, cfg, log)
	defer cleanup()
	if err != nil {
		return err
	}

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewReportJob(runner, cfg, log)); err != nil {
		return fmt.Errorf("register report job: %w", err)
	}

	sched.Start()

	handler := api.NewStatusHandler(store, sched, log)
	server := api.New(cfg, log, api.NewRouter(handler, log))
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Error("Status server stopped")
		}
	}()

	fmt.Println("Scheduler started")
	fmt.Printf("  schedule: %s\n", cfg.Report.Schedule)
	fmt.Printf("  status:   http://localhost:%s/health\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Status server shutdown failed")
	}
	sched.Stop()

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	runner, _, cleanup, err := buildRunner(ctx, cfg, log)
	defer cleanup()
	if err != nil {
		return err
	}

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewReportJob(runner, cfg, log)); err != nil {
		return err
	}

	fmt.Println("Registered jobs:")
	for _, name := range sched.JobNames() {
		fmt.Printf("  - %s (%s)\n", name, cfg.Report.Schedule)
	}

	return nil
}
