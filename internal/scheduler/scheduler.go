package scheduler

import (
	"context"
	"fmt"
	"log"

	"visit-report-service/internal/config"
	"visit-report-service/internal/pipeline"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the daily report job
type Scheduler struct {
	cron      *cron.Cron
	pipeline  *pipeline.Pipeline
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a new scheduler running in the configured timezone
func NewScheduler(p *pipeline.Pipeline, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(cfg.Location())),
		pipeline: p,
		config:   cfg,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Report.DailyRunEnabled {
		log.Println("Scheduler: Daily report is disabled in configuration")
		return nil
	}

	// Parse daily run time (HH:MM format in config)
	cronSpec := s.parseDailyRunTime(s.config.Report.DailyRunTime)

	// Add daily report job
	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting daily report job...")
		if err := s.runDailyReport(); err != nil {
			log.Printf("Scheduler: Daily report failed: %v", err)
		} else {
			log.Println("Scheduler: Daily report completed successfully")
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily run at %s %s (cron: %s)",
		s.config.Report.DailyRunTime, s.config.Timezone, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// runDailyReport executes one scheduled pipeline run against the fixed,
// preconfigured destinations. An empty filtered set sends nothing.
func (s *Scheduler) runDailyReport() error {
	result, err := s.pipeline.Run(context.Background(), pipeline.Params{
		SendMethod:     pipeline.MethodBoth,
		Email:          s.config.Report.Email,
		WhatsAppNumber: s.config.Report.WhatsAppNumber,
		SkipWhenEmpty:  true,
	})
	if err != nil {
		return err
	}

	if result.TotalVisits == 0 {
		log.Println("Scheduler: No visits in window, nothing sent")
		return nil
	}

	if !result.Ok() {
		return fmt.Errorf("daily report finished with channel errors (email=%v chat=%v)",
			result.Email, result.Chat)
	}

	log.Printf("Scheduler: Daily report delivered (%d visits)", result.SentVisits)
	return nil
}

// RunNow immediately executes the daily report job (for manual trigger)
func (s *Scheduler) RunNow() error {
	log.Println("Scheduler: Manual trigger - starting report job...")
	return s.runDailyReport()
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "20:00" -> "0 20 * * *" (run at 8:00 PM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	// timeStr is expected to be in "HH:MM" format
	// Convert to cron format: "minute hour * * *"
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Default to 8:00 PM if parsing fails
	log.Printf("Scheduler: Failed to parse time '%s', using default 20:00", timeStr)
	return "0 20 * * *"
}
