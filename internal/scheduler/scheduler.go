package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/budget-service/internal/models"
	"github.com/Dan9191/budget-service/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DigestSource computes digests for every user
type DigestSource interface {
	Users(ctx context.Context) ([]models.User, error)
	BuildDigest(ctx context.Context, user models.User) (*service.Digest, error)
}

// Mailer delivers a digest
type Mailer interface {
	SendDigest(d *service.Digest) error
}

// Scheduler runs the periodic digest job
type Scheduler struct {
	cron    *cron.Cron
	src     DigestSource
	mailer  Mailer
	enabled bool
	timeout time.Duration
	log     *logrus.Logger
}

// New registers the digest job on the given cron schedule. An empty schedule
// registers nothing. mailEnabled false keeps the job registered but makes
// every run a logged no-op.
func New(schedule string, mailEnabled bool, src DigestSource, mailer Mailer, log *logrus.Logger) (*Scheduler, error) {
	logger := cron.PrintfLogger(log)
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		src:     src,
		mailer:  mailer,
		enabled: mailEnabled,
		timeout: 10 * time.Minute,
		log:     log,
	}
	if schedule == "" {
		log.Info("Digest schedule is empty, digests disabled")
		return s, nil
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Digest scheduler started")
}

// Stop halts the scheduler and waits for a running job up to ctx's deadline
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Digest job still running at shutdown")
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.RunDigest(ctx); err != nil {
		s.log.Errorf("Digest run failed: %v", err)
	}
}

// RunDigest builds a digest for every user and mails those that need
// attention. A failure for one user is logged and the run moves on.
func (s *Scheduler) RunDigest(ctx context.Context) (sent int, err error) {
	if !s.enabled {
		s.log.Info("SMTP is not configured, skipping digest run")
		return 0, nil
	}
	users, err := s.src.Users(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		entry := s.log.WithField("user_id", u.ID)
		d, err := s.src.BuildDigest(ctx, u)
		if err != nil {
			entry.Errorf("Failed to build digest: %v", err)
			continue
		}
		if !d.NeedsAttention() {
			continue
		}
		if err := s.mailer.SendDigest(d); err != nil {
			entry.Errorf("Failed to send digest: %v", err)
			continue
		}
		sent++
	}
	s.log.Infof("Digest run finished: %d of %d users mailed", sent, len(users))
	return sent, nil
}
