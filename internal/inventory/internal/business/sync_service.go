package business

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"storecatalog/internal/inventory/internal/models"
	"storecatalog/metrics"
	"storecatalog/pkg/live"
	"storecatalog/pkg/logger"
)

const unknownSyncFailure = "unknown sync failure"

// ErrSyncInProgress возвращает TryStart, если прогон уже идёт.
var ErrSyncInProgress = errors.New("sync already in progress")

// CatalogSource - удалённый каталог (RecordsClient).
type CatalogSource interface {
	FetchAllRecords(ctx context.Context, progress func(int)) ([]map[string]interface{}, error)
}

// CatalogStore - полная замена содержимого кэша.
type CatalogStore interface {
	ReplaceAll(ctx context.Context, products []models.Product) error
}

// SyncHistory - время последней успешной синхронизации, переживает рестарт.
type SyncHistory interface {
	LastSync(ctx context.Context) (*time.Time, error)
}

// SyncService выполняет полную синхронизацию: выкачать, нормализовать, заменить кэш.
// Одновременные вызовы Sync склеиваются в один прогон.
type SyncService struct {
	source  CatalogSource
	store   CatalogStore
	history SyncHistory
	log     logger.Logger
	metrics *metrics.SyncMetrics

	group  singleflight.Group
	mu     sync.Mutex
	status models.SyncStatus
	feed   *live.Feed[models.SyncStatus]
	now    func() time.Time
}

func NewSyncService(source CatalogSource, store CatalogStore, history SyncHistory, log logger.Logger) *SyncService {
	s := &SyncService{
		source:  source,
		store:   store,
		history: history,
		log:     log,
		metrics: &metrics.SyncMetrics{},
		status:  models.SyncStatus{State: models.SyncIdle},
		feed:    live.NewFeed[models.SyncStatus](),
		now:     time.Now,
	}
	s.feed.Publish(s.status)
	return s
}

// Restore подтягивает время последней синхронизации из metadata.
func (s *SyncService) Restore(ctx context.Context) error {
	if s.history == nil {
		return nil
	}
	last, err := s.history.LastSync(ctx)
	if err != nil {
		return err
	}
	s.update(func(st *models.SyncStatus) { st.LastSyncedAt = last })
	return nil
}

func (s *SyncService) Status() models.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// WatchStatus - подписка на изменения статуса; текущий статус приходит сразу.
func (s *SyncService) WatchStatus() *live.Subscription[models.SyncStatus] {
	return s.feed.Subscribe()
}

func (s *SyncService) Metrics() metrics.SyncMetricsSnapshot {
	return s.metrics.Snapshot()
}

// ClearError сбрасывает ошибку последнего прогона.
func (s *SyncService) ClearError() {
	s.update(func(st *models.SyncStatus) { st.Error = "" })
}

// Sync запускает прогон или присоединяется к уже идущему. Контекст первого вызова управляет прогоном.
func (s *SyncService) Sync(ctx context.Context) (models.SyncResult, error) {
	v, err, shared := s.group.Do("sync", func() (interface{}, error) {
		return s.run(ctx)
	})
	if shared {
		s.log.Log("Joined sync run already in progress")
	}
	res, _ := v.(models.SyncResult)
	return res, err
}

// TryStart запускает прогон в фоне, если он ещё не идёт.
func (s *SyncService) TryStart(ctx context.Context) error {
	if s.Status().Syncing() {
		return ErrSyncInProgress
	}
	go func() {
		if _, err := s.Sync(ctx); err != nil {
			s.log.Error("Background sync failed: %v", err)
		}
	}()
	return nil
}

// Close завершает подписки на статус.
func (s *SyncService) Close() {
	s.feed.Close()
}

func (s *SyncService) run(ctx context.Context) (res models.SyncResult, err error) {
	runID := uuid.NewString()
	start := s.now()
	res.RunID = runID

	s.metrics.Runs.Add(1)
	s.update(func(st *models.SyncStatus) {
		zero := 0
		st.State = models.SyncSyncing
		st.Progress = &zero
		st.Error = ""
		st.RunID = runID
	})
	s.log.Log("Sync %s started", runID)

	defer func() {
		res.Duration = s.now().Sub(start)
		if err != nil {
			s.metrics.Failures.Add(1)
			metrics.RecordSync(false, 0, res.Duration)
			s.log.Error("Sync %s failed after %v: %v", runID, res.Duration, err)
		} else {
			metrics.RecordSync(true, res.Stored, res.Duration)
			s.log.Log("Sync %s done in %v: fetched=%d dropped=%d stored=%d",
				runID, res.Duration, res.Fetched, res.Dropped, res.Stored)
		}
		s.update(func(st *models.SyncStatus) {
			st.State = models.SyncIdle
			st.Progress = nil
			if err != nil {
				st.Error = errorMessage(err)
			}
		})
	}()

	records, err := s.source.FetchAllRecords(ctx, s.relayProgress())
	if err != nil {
		return res, err
	}
	res.Fetched = len(records)
	s.metrics.RecordsFetched.Add(int64(len(records)))

	products, dropped := ProductsFromRecords(records)
	res.Dropped = dropped
	s.metrics.RecordsDropped.Add(int64(dropped))
	if dropped > 0 {
		s.log.Warn("Sync %s: dropped %d records without id", runID, dropped)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := s.store.ReplaceAll(ctx, products); err != nil {
		return res, err
	}
	res.Stored = len(products)
	s.metrics.RecordsStored.Add(int64(len(products)))

	finished := s.now()
	s.update(func(st *models.SyncStatus) { st.LastSyncedAt = &finished })
	return res, nil
}

// relayProgress пробрасывает прогресс в статус, не давая ему убывать внутри прогона.
func (s *SyncService) relayProgress() func(int) {
	last := 0
	return func(pct int) {
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		if pct < last {
			return
		}
		last = pct
		s.update(func(st *models.SyncStatus) {
			p := pct
			st.Progress = &p
		})
	}
}

func (s *SyncService) update(fn func(st *models.SyncStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.status)
	s.feed.Publish(s.status)
}

func errorMessage(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return unknownSyncFailure
}
