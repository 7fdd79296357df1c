package snapshot

import (
	"agd/internal/providers"
	"agd/internal/services"
	"agd/internal/snapshot/interfaces"
	"agd/internal/structures"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.GameDataServiceInterface
	fileManager interfaces.PersisterInterface
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Sync.Interval), func() {
		// a slow sync must not queue up behind itself
		if !s.opsMu.TryLock() {
			s.logger.Debugf(providers.TypeSync, "Previous sync still running, skipping tick")
			return
		}
		defer s.opsMu.Unlock()

		ctx, cancel := s.syncContext()
		defer cancel()
		s.sync(ctx)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// SyncNow runs one synchronization and waits for any scheduled one to finish first.
func (s *Scheduler) SyncNow(ctx context.Context) error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.sync(ctx)
}

func (s *Scheduler) sync(ctx context.Context) error {
	s.logger.Debugf(providers.TypeSync, "Checking for a new revision...")
	updated, err := s.service.Update(ctx)
	if err != nil {
		return err
	}
	if updated {
		s.logger.Infof(providers.TypeSync, "Now serving revision %s", s.service.Revision())
	}
	return nil
}

func (s *Scheduler) syncContext() (context.Context, context.CancelFunc) {
	if s.config.Sync.Timeout > 0 {
		return context.WithTimeout(context.Background(), s.config.Sync.Timeout)
	}
	return context.WithCancel(context.Background())
}

// Persist writes the current snapshot to the configured file, if any.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	path := s.config.Persistence.FilePath
	snap := s.service.Current()
	if path == "" || snap == nil {
		return nil
	}

	s.logger.Infof(providers.TypeApp, "Persisting snapshot %s to file...", snap.GitHash)
	start := time.Now()
	if err := s.fileManager.SaveToFile(path, snap); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return fmt.Errorf("persist snapshot: %w", err)
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.GameDataServiceInterface, fileManager interfaces.PersisterInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
		metrics:     metrics,
	}
}
