package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Prober refreshes the connectivity flag.
type Prober interface {
	Enabled() bool
	Probe(ctx context.Context) bool
}

type Scheduler struct {
	cron         *cron.Cron
	prober       Prober
	probeSpec    string
	probeTimeout time.Duration
	resetLimits  func()
	log          zerolog.Logger
}

type Options struct {
	ProbeSchedule string
	ProbeTimeout  time.Duration

	// ResetLimits runs hourly when set.
	ResetLimits func()
}

func NewScheduler(prober Prober, opts Options, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:         c,
		prober:       prober,
		probeSpec:    opts.ProbeSchedule,
		probeTimeout: opts.ProbeTimeout,
		resetLimits:  opts.ResetLimits,
		log:          log,
	}
}

func (s *Scheduler) Start() error {
	if s.prober != nil && s.prober.Enabled() {
		if _, err := s.cron.AddFunc(s.probeSpec, s.probe); err != nil {
			return err
		}
		go s.probe()
	}
	if s.resetLimits != nil {
		if _, err := s.cron.AddFunc("0 0 * * * *", s.resetLimits); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for running jobs or ctx, whichever ends
// first.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) probe() {
	timeout := s.probeTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	online := s.prober.Probe(ctx)
	s.log.Debug().Bool("online", online).Msg("network probe")
}
