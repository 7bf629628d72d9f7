package services_test

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/providers"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
)

// memReservations is an in-memory ReservationRepository. WithinFacilityLock serialises
// on a single mutex and rolls back by restoring a snapshot when fn fails.
type memReservations struct {
	lock   sync.Mutex
	mu     sync.RWMutex
	rows   map[int64]entities.Reservation
	nextID int64
	locked [][]int64
}

func newMemReservations(existing ...entities.Reservation) *memReservations {
	m := &memReservations{rows: make(map[int64]entities.Reservation)}
	for _, r := range existing {
		m.nextID++
		if r.ID == 0 {
			r.ID = m.nextID
		}
		m.rows[r.ID] = r
		if r.ID > m.nextID {
			m.nextID = r.ID
		}
	}
	return m
}

func (m *memReservations) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

func (m *memReservations) ListByFacility(ctx context.Context, facilityID int64) ([]*entities.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*entities.Reservation{}
	for _, r := range m.rows {
		if r.FacilityID == facilityID {
			r := r
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *memReservations) Create(ctx context.Context, r *entities.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	m.rows[r.ID] = *r
	return nil
}

func (m *memReservations) Update(ctx context.Context, r *entities.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[r.ID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %d not found", r.ID))
	}
	r.UpdatedAt = time.Now().UTC()
	m.rows[r.ID] = *r
	return nil
}

func (m *memReservations) GetByID(ctx context.Context, id int64) (*entities.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %d not found", id))
	}
	return &r, nil
}

func (m *memReservations) List(ctx context.Context, filter repositories.ReservationFilter) ([]*entities.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []*entities.Reservation{}
	for i := filter.Offset; i < len(ids) && len(out) < filter.Limit; i++ {
		r := m.rows[ids[i]]
		out = append(out, &r)
	}
	return out, nil
}

func (m *memReservations) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %d not found", id))
	}
	delete(m.rows, id)
	return nil
}

func (m *memReservations) Count(ctx context.Context) (int64, error) {
	return int64(m.len()), nil
}

func (m *memReservations) WithinFacilityLock(ctx context.Context, fn func(ctx context.Context, store repositories.ReservationStore) error, facilityIDs ...int64) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.mu.Lock()
	m.locked = append(m.locked, facilityIDs)
	snapshot := make(map[int64]entities.Reservation, len(m.rows))
	for id, r := range m.rows {
		snapshot[id] = r
	}
	nextID := m.nextID
	m.mu.Unlock()

	if err := fn(ctx, m); err != nil {
		m.mu.Lock()
		m.rows = snapshot
		m.nextID = nextID
		m.mu.Unlock()
		return err
	}
	return nil
}

// memFacilities is an in-memory FacilityRepository
type memFacilities struct {
	mu         sync.RWMutex
	rows       map[int64]entities.Facility
	nextID     int64
	referenced func(id int64) bool
}

func newMemFacilities(existing ...entities.Facility) *memFacilities {
	m := &memFacilities{rows: make(map[int64]entities.Facility)}
	for _, f := range existing {
		m.rows[f.ID] = f
		if f.ID > m.nextID {
			m.nextID = f.ID
		}
	}
	return m
}

func (m *memFacilities) Create(ctx context.Context, f *entities.Facility) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	f.ID = m.nextID
	f.CreatedAt = time.Now().UTC()
	f.UpdatedAt = f.CreatedAt
	m.rows[f.ID] = *f
	return nil
}

func (m *memFacilities) GetByID(ctx context.Context, id int64) (*entities.Facility, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", id))
	}
	return &f, nil
}

func (m *memFacilities) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Facility, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*entities.Facility{}
	for _, id := range ids {
		if f, ok := m.rows[id]; ok {
			f := f
			out = append(out, &f)
		}
	}
	return out, nil
}

func (m *memFacilities) Update(ctx context.Context, f *entities.Facility) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[f.ID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", f.ID))
	}
	f.UpdatedAt = time.Now().UTC()
	m.rows[f.ID] = *f
	return nil
}

func (m *memFacilities) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", id))
	}
	if m.referenced != nil && m.referenced(id) {
		return apperrors.NewConflictError("facility still has reservations")
	}
	delete(m.rows, id)
	return nil
}

func (m *memFacilities) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.rows))
	for id, f := range m.rows {
		if filter.Type == "" || f.Type == filter.Type {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := []*entities.Facility{}
	for i := filter.Offset; i < len(ids) && (filter.Limit == 0 || len(out) < filter.Limit); i++ {
		f := m.rows[ids[i]]
		out = append(out, &f)
	}
	return out, nil
}

func (m *memFacilities) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.rows)), nil
}

// memCache is an in-memory CacheProvider
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (m *memCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memCache) DeletePattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
			m.deleted = append(m.deleted, k)
		}
	}
	return nil
}

func (m *memCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *memCache) has(key string) bool {
	ok, _ := m.Exists(context.Background(), key)
	return ok
}

// memEventBus records published events and fans them out to subscribers
type memEventBus struct {
	mu        sync.Mutex
	published map[string][]*entities.ReservationEvent
	subs      map[string][]chan *entities.ReservationEvent
}

func newMemEventBus() *memEventBus {
	return &memEventBus{
		published: make(map[string][]*entities.ReservationEvent),
		subs:      make(map[string][]chan *entities.ReservationEvent),
	}
}

func (b *memEventBus) Publish(ctx context.Context, channel string, event *entities.ReservationEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published[channel] = append(b.published[channel], event)
	for _, ch := range b.subs[channel] {
		ch <- event
	}
	return nil
}

func (b *memEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ReservationEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *entities.ReservationEvent, 10)
	b.subs[channel] = append(b.subs[channel], ch)
	return ch, nil
}

func (b *memEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *memEventBus) Close() error { return nil }

// events returns what was published on the shared reservation updates channel
func (b *memEventBus) events() []*entities.ReservationEvent {
	return b.on(providers.EventChannelReservationUpdates)
}

func (b *memEventBus) on(channel string) []*entities.ReservationEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*entities.ReservationEvent(nil), b.published[channel]...)
}

// memTrails is an in-memory TrailRepository
type memTrails struct {
	mu     sync.RWMutex
	rows   []*entities.Trail
	nextID int64
}

func (m *memTrails) Create(ctx context.Context, t *entities.Trail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t.ID = m.nextID
	c := *t
	m.rows = append(m.rows, &c)
	return nil
}

func (m *memTrails) GetByID(ctx context.Context, id int64) (*entities.Trail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.rows {
		if t.ID == id {
			c := *t
			return &c, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("trail with id %d not found", id))
}

func (m *memTrails) List(ctx context.Context, limit, offset int) ([]*entities.Trail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	out := []*entities.Trail{}
	for i := offset; i < len(m.rows) && len(out) < limit; i++ {
		out = append(out, m.rows[i])
	}
	return out, nil
}

func (m *memTrails) Search(ctx context.Context, query string, limit int) ([]*entities.Trail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(query)
	out := []*entities.Trail{}
	for _, t := range m.rows {
		if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Location), q) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTrails) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.rows)), nil
}

// memTrailIndex is a TrailSearchRepository returning canned hits
type memTrailIndex struct {
	mu      sync.Mutex
	indexed []int64
	hits    []int64
	err     error
}

func (m *memTrailIndex) Search(ctx context.Context, query string, limit int) ([]int64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

func (m *memTrailIndex) Index(ctx context.Context, t *entities.Trail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.indexed = append(m.indexed, t.ID)
	return nil
}

// memReviews is an in-memory ReviewRepository
type memReviews struct {
	mu   sync.Mutex
	rows []*entities.TrailReview
}

func (m *memReviews) Create(ctx context.Context, r *entities.TrailReview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = int64(len(m.rows) + 1)
	r.CreatedAt = time.Now().UTC()
	m.rows = append(m.rows, r)
	return nil
}

func (m *memReviews) ListByTrail(ctx context.Context, trailID int64, limit, offset int) ([]*entities.TrailReview, error) {
	return m.filter(func(r *entities.TrailReview) bool { return r.TrailID == trailID }), nil
}

func (m *memReviews) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entities.TrailReview, error) {
	return m.filter(func(r *entities.TrailReview) bool { return r.UserID == userID }), nil
}

func (m *memReviews) filter(keep func(*entities.TrailReview) bool) []*entities.TrailReview {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entities.TrailReview{}
	for i := len(m.rows) - 1; i >= 0; i-- {
		if keep(m.rows[i]) {
			out = append(out, m.rows[i])
		}
	}
	return out
}

// memRecords is an in-memory WalkRecordRepository
type memRecords struct {
	mu   sync.Mutex
	rows []*entities.WalkRecord
}

func (m *memRecords) Create(ctx context.Context, r *entities.WalkRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = int64(len(m.rows) + 1)
	if r.WalkedAt.IsZero() {
		r.WalkedAt = time.Now().UTC()
	}
	m.rows = append(m.rows, r)
	return nil
}

func (m *memRecords) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entities.WalkRecord, error) {
	return m.filter(func(r *entities.WalkRecord) bool { return r.UserID == userID }), nil
}

func (m *memRecords) ListByTrail(ctx context.Context, trailID int64, limit, offset int) ([]*entities.WalkRecord, error) {
	return m.filter(func(r *entities.WalkRecord) bool { return r.TrailID == trailID }), nil
}

func (m *memRecords) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *memRecords) filter(keep func(*entities.WalkRecord) bool) []*entities.WalkRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entities.WalkRecord{}
	for _, r := range m.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// memUsers is an in-memory UserRepository
type memUsers struct {
	mu   sync.Mutex
	rows []*entities.User
}

func (m *memUsers) Create(ctx context.Context, u *entities.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Username == u.Username {
			return apperrors.NewConflictError("username already taken")
		}
	}
	u.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, u)
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %d not found", id))
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %q not found", username))
}

func (m *memUsers) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

type memBadges []*entities.Badge

func (m memBadges) List(ctx context.Context) ([]*entities.Badge, error) {
	return []*entities.Badge(m), nil
}
