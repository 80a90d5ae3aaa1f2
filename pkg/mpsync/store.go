package mpsync

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	"github.com/orcrobert/mpp/pkg/mpdb/mpmodel"
)

// EntityStore mirrors the remote band collection. While online, mutations go
// straight to the remote and the mirror is refreshed. While the network or
// server is down, mutations apply optimistically to the mirror and queue for
// replay. Construct one per session and pass it to consumers; it is not a
// package-level singleton.
type EntityStore struct {
	mu     sync.Mutex
	client RemoteAPI
	conn   *ConnState
	kv     KV
	queue  *PendingQueue

	bands      []mpmodel.Band
	total      int64
	page       int
	limit      int
	lastParams ListParams
	isLoading  atomic.Bool
	syncing    atomic.Bool

	topRated     *mpmodel.Band
	lowestRated  *mpmodel.Band
	averageRated *mpmodel.Band
	chartData    ChartData
}

func NewEntityStore(client RemoteAPI, conn *ConnState, kv KV) *EntityStore {
	s := &EntityStore{
		client: client,
		conn:   conn,
		kv:     kv,
		queue:  NewPendingQueue(kv),
	}

	s.recalculate()

	return s
}

// Refresh rebuilds the mirror from the remote, replacing it wholesale and
// rewriting the local cache. On failure it hydrates from the last-known
// cache and marks the server down.
func (s *EntityStore) Refresh(params ListParams) error {
	s.isLoading.Store(true)
	defer s.isLoading.Store(false)

	result, err := s.client.List(params)
	if err != nil {
		log.Errorf("Failed to fetch entities: %s", err)
		s.conn.SetServerDown(true)
		s.hydrateFromCache()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bands = result.Data
	s.total = result.Total
	s.page = result.Page
	s.limit = result.Limit
	s.lastParams = params
	s.persistCache()
	s.recalculate()

	return nil
}

// AddBand creates a band. Offline (or when the online call fails for a
// transient reason) the band gets a temporary negative id, joins the mirror
// optimistically, and an add operation is queued. Server-assigned ids are
// always positive, so temporary ids can't collide.
func (s *EntityStore) AddBand(band mpmodel.Band) error {
	band.ID = 0

	if s.conn.Online() {
		_, err := s.client.Create(&band)
		switch {
		case err == nil:
			return s.Refresh(s.LastParams())
		case !IsTransientErr(err):
			return err
		default:
			// Transient failure while believed-online: treat as server
			// down and fall through to the offline path.
			log.Warnf("Create failed, queueing for replay: %s", err)
			s.conn.SetServerDown(true)
		}
	}

	band.ID = tempID()

	s.mu.Lock()
	s.bands = append(s.bands, band)
	s.recalculate()
	s.mu.Unlock()

	bandCopy := band
	s.queue.Enqueue(PendingOperation{
		Type:     OpAdd,
		EntityID: band.ID,
		Entity:   &bandCopy,
	})

	return nil
}

// UpdateBand applies a partial update. Offline, the fields merge into the
// mirrored record and an update operation is queued.
func (s *EntityStore) UpdateBand(bandID int, fields map[string]interface{}) error {
	if s.conn.Online() {
		_, err := s.client.Update(bandID, fields)
		switch {
		case err == nil:
			return s.Refresh(s.LastParams())
		case !IsTransientErr(err):
			return err
		default:
			log.Warnf("Update of %d failed, queueing for replay: %s", bandID, err)
			s.conn.SetServerDown(true)
		}
	}

	s.mu.Lock()
	for i := range s.bands {
		if s.bands[i].ID == bandID {
			applyFields(&s.bands[i], fields)
			break
		}
	}
	s.recalculate()
	s.mu.Unlock()

	s.queue.Enqueue(PendingOperation{
		Type:     OpUpdate,
		EntityID: bandID,
		Fields:   fields,
	})

	return nil
}

// DeleteBand removes a band. The mirror drops the record immediately in both
// paths; offline, a delete operation is queued.
func (s *EntityStore) DeleteBand(bandID int) error {
	if s.conn.Online() {
		err := s.client.Delete(bandID)
		switch {
		case err == nil:
			s.removeLocal(bandID)
			return nil
		case !IsTransientErr(err):
			return err
		default:
			log.Warnf("Delete of %d failed, queueing for replay: %s", bandID, err)
			s.conn.SetServerDown(true)
		}
	}

	s.removeLocal(bandID)

	s.queue.Enqueue(PendingOperation{
		Type:     OpDelete,
		EntityID: bandID,
	})

	return nil
}

// Sync replays the pending queue in enqueue order when both connectivity
// flags are clear. Operations are awaited sequentially, never concurrently,
// to preserve ordering; triggers arriving while a pass is already running
// coalesce into it, so a simultaneous network and server recovery can't
// replay the same operation twice. A failed operation stays queued for the
// next pass; later operations still run. After a pass the mirror is
// refreshed so server-assigned ids supersede temporary ones.
func (s *EntityStore) Sync() {
	if !s.syncing.CompareAndSwap(false, true) {
		return
	}
	defer s.syncing.Store(false)

	if !s.conn.Online() || s.queue.Len() == 0 {
		return
	}

	for _, op := range s.queue.All() {
		var err error

		switch op.Type {
		case OpAdd:
			_, err = s.client.Create(op.Entity)
			if err == nil {
				s.queue.Remove(op.ID)
				// Drop the temporary record; the refresh below brings in
				// the server-assigned one.
				s.removeLocal(op.EntityID)
			}
		case OpUpdate:
			_, err = s.client.Update(op.EntityID, op.Fields)
			if err == nil {
				s.queue.Remove(op.ID)
			}
		case OpDelete:
			err = s.client.Delete(op.EntityID)
			if err == nil {
				s.queue.Remove(op.ID)
				s.removeLocal(op.EntityID)
			}
		}

		if err != nil {
			log.Errorf("Replay of %s operation %s failed: %s", op.Type, op.ID, err)
		}
	}

	if err := s.Refresh(s.LastParams()); err != nil {
		log.Errorf("Post-sync refresh failed: %s", err)
	}
}

// SyncLoop drains the queue whenever connectivity allows. Cancel the context
// to tear it down.
func (s *EntityStore) SyncLoop(c context.Context, interval time.Duration) {
	for {
		s.Sync()
		select {
		case <-c.Done():
			return
		case <-time.After(interval):
		}
	}
}

func (s *EntityStore) IsLoading() bool {
	return s.isLoading.Load()
}

func (s *EntityStore) Bands() []mpmodel.Band {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]mpmodel.Band(nil), s.bands...)
}

func (s *EntityStore) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.total
}

func (s *EntityStore) LastParams() ListParams {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastParams
}

func (s *EntityStore) Queue() *PendingQueue {
	return s.queue
}

func (s *EntityStore) TopRated() *mpmodel.Band {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.topRated
}

func (s *EntityStore) LowestRated() *mpmodel.Band {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lowestRated
}

func (s *EntityStore) AverageRated() *mpmodel.Band {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.averageRated
}

func (s *EntityStore) ChartData() ChartData {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chartData
}

func (s *EntityStore) removeLocal(bandID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bands {
		if s.bands[i].ID == bandID {
			s.bands = append(s.bands[:i], s.bands[i+1:]...)
			break
		}
	}

	s.recalculate()
}

// recalculate recomputes the derived statistics. Callers hold s.mu.
func (s *EntityStore) recalculate() {
	s.topRated = TopRated(s.bands)
	s.lowestRated = LowestRated(s.bands)
	s.averageRated = AverageRated(s.bands)
	s.chartData = BuildChartData(s.bands)
}

// persistCache rewrites the offline fallback cache. Callers hold s.mu.
func (s *EntityStore) persistCache() {
	b, err := json.Marshal(s.bands)
	if err != nil {
		log.Errorf("Failed marshaling entity cache: %s", err)
		return
	}

	if err := s.kv.Set(cachedBandsKey, b); err != nil {
		log.Errorf("Failed persisting entity cache: %s", err)
	}
}

func (s *EntityStore) hydrateFromCache() {
	b, ok := s.kv.Get(cachedBandsKey)
	if !ok {
		return
	}

	var cached []mpmodel.Band
	if err := json.Unmarshal(b, &cached); err != nil {
		// Corrupt cache reads as empty, never errors.
		log.Warnf("Discarding unreadable entity cache: %s", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bands = cached
	s.recalculate()
}

// tempID derives a client-side id for offline-created bands. Negative so it
// can never collide with a server-assigned id.
func tempID() int {
	return -int(time.Now().UnixNano())
}

func applyFields(band *mpmodel.Band, fields map[string]interface{}) {
	for key, val := range fields {
		switch key {
		case "name":
			if v, ok := val.(string); ok {
				band.Name = v
			}
		case "genre":
			if v, ok := val.(string); ok {
				band.Genre = v
			}
		case "rating":
			if v, ok := val.(float64); ok {
				band.Rating = v
			}
		case "status":
			if v, ok := val.(bool); ok {
				band.Status = v
			}
		case "theme":
			if v, ok := val.(string); ok {
				band.Theme = v
			}
		case "country":
			if v, ok := val.(string); ok {
				band.Country = v
			}
		case "label":
			if v, ok := val.(string); ok {
				band.Label = v
			}
		case "link":
			if v, ok := val.(string); ok {
				band.Link = v
			}
		}
	}
}
