package project

import (
	"context"
	"sync"
	"time"

	"github.com/rzbill/tracker/pkg/log"
)

// saver periodically snapshots a project and, when leases expire, sweeps
// them back into the pending set.
type saver struct {
	p         *Project
	interval  time.Duration
	sweepIntv time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func newSaver(p *Project, interval, sweepInterval time.Duration) *saver {
	ctx, cancel := context.WithCancel(context.Background())
	return &saver{
		p:         p,
		interval:  interval,
		sweepIntv: sweepInterval,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins the loop.
func (s *saver) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop cancels the loop and waits for an in-flight save to finish. It is
// safe to call more than once.
func (s *saver) Stop() {
	s.once.Do(s.cancel)
	s.wg.Wait()
}

func (s *saver) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var sweep <-chan time.Time
	if s.p.leaseTimeout > 0 && s.sweepIntv > 0 {
		sweepTicker := time.NewTicker(s.sweepIntv)
		defer sweepTicker.Stop()
		sweep = sweepTicker.C
	}

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.p.Save(s.ctx); err != nil && s.ctx.Err() == nil {
				s.p.logger.Error("snapshot failed", log.Err(err))
			}
		case <-sweep:
			s.p.ReclaimExpired()
		}
	}
}
