package commands

// Command to publish the chart on a cron schedule until interrupted.

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logging "ohlc-logchart/internal/infra/log"
	"ohlc-logchart/internal/scheduler"
)

const publishJob = "publish"

var runOnStart bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Publish the chart on the configured cron schedule",
	Long:  `Run the publish flow on schedule.cron (six fields, seconds first) until SIGINT or SIGTERM.`,
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Publish once immediately before waiting for the schedule")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, rec, err := newService(true)
	if err != nil {
		return err
	}
	defer rec.Close()

	job := func(ctx context.Context) error {
		_, err := svc.Run(ctx, true)
		return err
	}

	sched := scheduler.New(ctx)
	if err := sched.Register(publishJob, cfg.Schedule.Cron, job); err != nil {
		return err
	}
	if runOnStart {
		sched.RunNow(publishJob, job)
	}
	sched.Start()

	if next, ok := sched.Next(publishJob); ok {
		logging.LogInfo("Next publish scheduled", zap.Time("at", next))
	}
	logging.LogSuccess("Scheduler is running", zap.String("cron", cfg.Schedule.Cron))

	<-ctx.Done()
	logging.LogInfo("Shutdown signal received, stopping scheduler...")
	sched.Stop(10 * time.Second)
	return nil
}
