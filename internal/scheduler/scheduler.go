package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"btcEthDCA/internal/report"
)

// ReportSender posts a fresh comparison report to a chat.
type ReportSender interface {
	SendReport(chatID int64, trigger string, req report.Request)
}

// Scheduler posts the comparison report on a cron schedule.
type Scheduler struct {
	c *cron.Cron
}

// New parses expr (six fields, seconds first) and registers the report job.
func New(expr string, chatID int64, sender ReportSender, req report.Request) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(expr, func() {
		log.Info().Str("component", "scheduler").Int64("chat_id", chatID).Msg("scheduler: posting report")
		sender.SendReport(chatID, "cron", req)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid report cron %q: %w", expr, err)
	}
	return &Scheduler{c: c}, nil
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() { <-s.c.Stop().Done() }
