package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/snooker-app/models"
	"github.com/yeremiapane/snooker-app/utils"
)

const DefaultTableCount = 4

type RegistryConfig struct {
	Tables       int
	Pricing      Pricing
	TickInterval time.Duration
	NewTicker    TickerFactory
	Now          func() time.Time
}

// slot holds one table. opMu serializes operations (start, stop, reset,
// settle, item adds); mu guards session and version and is the only lock
// taken by ticks. pubMu orders delivery: published is the newest version
// handed to the notifier.
type slot struct {
	opMu    sync.Mutex
	mu      sync.Mutex
	session models.TableSession
	version uint64
	loop    *tickLoop

	pubMu     sync.Mutex
	published uint64
}

// snapshotLocked requires s.mu held. Every mutation takes exactly one.
func (s *slot) snapshotLocked() (models.TableSession, uint64) {
	s.version++
	return s.session.Clone(), s.version
}

// SessionRegistry owns the session of every table slot.
type SessionRegistry struct {
	cfg      RegistryConfig
	slots    []*slot
	notifier *Notifier
}

func NewSessionRegistry(cfg RegistryConfig, notifier *Notifier) *SessionRegistry {
	if cfg.Tables <= 0 {
		cfg.Tables = DefaultTableCount
	}
	if cfg.Pricing == (Pricing{}) {
		cfg.Pricing = DefaultPricing
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.NewTicker == nil {
		cfg.NewTicker = NewRealTicker
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if notifier == nil {
		notifier = NewNotifier()
	}

	r := &SessionRegistry{
		cfg:      cfg,
		slots:    make([]*slot, cfg.Tables),
		notifier: notifier,
	}
	for i := range r.slots {
		r.slots[i] = &slot{session: newIdleSession(i + 1)}
	}
	return r
}

func newIdleSession(tableNumber int) models.TableSession {
	return models.TableSession{
		TableNumber: tableNumber,
		SessionID:   uuid.NewString(),
		Status:      models.SessionIdle,
		Items:       []models.LineItem{},
	}
}

func (r *SessionRegistry) TableCount() int {
	return len(r.slots)
}

func (r *SessionRegistry) Pricing() Pricing {
	return r.cfg.Pricing
}

func (r *SessionRegistry) slot(tableNumber int) (*slot, error) {
	if tableNumber < 1 || tableNumber > len(r.slots) {
		return nil, ValidationError{
			Field:   "table_number",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", len(r.slots), tableNumber),
		}
	}
	return r.slots[tableNumber-1], nil
}

// Get returns a snapshot of the table's session.
func (r *SessionRegistry) Get(tableNumber int) (models.TableSession, error) {
	s, err := r.slot(tableNumber)
	if err != nil {
		return models.TableSession{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Clone(), nil
}

// List returns snapshots of all tables ordered by table number.
func (r *SessionRegistry) List() []models.TableSession {
	out := make([]models.TableSession, 0, len(r.slots))
	for _, s := range r.slots {
		s.mu.Lock()
		out = append(out, s.session.Clone())
		s.mu.Unlock()
	}
	return out
}

// Subscribe registers a listener for every session mutation on any table.
// Per table, listeners see states in mutation order; a state overtaken by a
// newer one before delivery is skipped. Listeners run on the mutating
// goroutine, tick goroutines included, so they must not mutate the registry
// synchronously.
func (r *SessionRegistry) Subscribe(listener SessionListener) (unsubscribe func()) {
	return r.notifier.Subscribe(listener)
}

// publish delivers snapshot unless a newer state of the slot went out first.
func (r *SessionRegistry) publish(s *slot, snapshot models.TableSession, version uint64) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if version <= s.published {
		return
	}
	s.published = version
	r.notifier.Publish(snapshot)
}

// Start activates the table and begins ticking. An ended session resumes
// with its counters; an active one gets its ticker replaced.
func (r *SessionRegistry) Start(tableNumber int) (models.TableSession, error) {
	s, err := r.slot(tableNumber)
	if err != nil {
		return models.TableSession{}, err
	}

	s.opMu.Lock()
	if s.loop != nil {
		s.loop.halt()
		s.loop = nil
	}

	s.mu.Lock()
	now := r.cfg.Now()
	if s.session.StartedAt == nil {
		s.session.StartedAt = &now
	}
	s.session.EndedAt = nil
	s.session.Status = models.SessionActive
	s.session.TableCharge = r.cfg.Pricing.OccupancyCharge(s.session.ElapsedMinutes)
	snapshot, version := s.snapshotLocked()
	s.mu.Unlock()

	utils.InfoLogger.WithFields(logrus.Fields{
		"table":   tableNumber,
		"session": snapshot.SessionID,
	}).Info("table session started")

	// published before the loop exists so no tick overtakes it
	r.publish(s, snapshot, version)
	s.loop = startTickLoop(r.cfg.NewTicker(r.cfg.TickInterval), func() { r.tick(s) })
	s.opMu.Unlock()
	return snapshot, nil
}

func (r *SessionRegistry) tick(s *slot) {
	s.mu.Lock()
	if s.session.Status != models.SessionActive {
		s.mu.Unlock()
		return
	}
	s.session.ElapsedSeconds++
	s.session.ElapsedMinutes = s.session.ElapsedSeconds / 60
	s.session.TableCharge = r.cfg.Pricing.OccupancyCharge(s.session.ElapsedMinutes)
	snapshot, version := s.snapshotLocked()
	s.mu.Unlock()

	r.publish(s, snapshot, version)
}

// Stop halts the ticker and freezes the session as ended.
func (r *SessionRegistry) Stop(tableNumber int) (models.TableSession, error) {
	s, err := r.slot(tableNumber)
	if err != nil {
		return models.TableSession{}, err
	}

	s.opMu.Lock()
	s.mu.Lock()
	status := s.session.Status
	s.mu.Unlock()
	if status != models.SessionActive {
		s.opMu.Unlock()
		return models.TableSession{}, fmt.Errorf("stop table %d in status %s: %w", tableNumber, status, ErrInvalidState)
	}

	if s.loop != nil {
		s.loop.halt()
		s.loop = nil
	}

	s.mu.Lock()
	now := r.cfg.Now()
	s.session.Status = models.SessionEnded
	s.session.EndedAt = &now
	snapshot, version := s.snapshotLocked()
	s.mu.Unlock()
	s.opMu.Unlock()

	utils.InfoLogger.WithFields(logrus.Fields{
		"table":   tableNumber,
		"session": snapshot.SessionID,
		"seconds": snapshot.ElapsedSeconds,
		"charge":  snapshot.TableCharge,
	}).Info("table session stopped")

	r.publish(s, snapshot, version)
	return snapshot, nil
}

// AddItem adds one unit of item to the table. Re-adding an id bumps its
// quantity. It waits for a running settle, so an item is either on the saved
// bill or rejected by the fresh idle table.
func (r *SessionRegistry) AddItem(tableNumber int, item models.LineItem) (models.TableSession, error) {
	s, err := r.slot(tableNumber)
	if err != nil {
		return models.TableSession{}, err
	}
	if item.ID == "" {
		return models.TableSession{}, ValidationError{Field: "item_id", Message: "is required"}
	}
	if item.UnitPrice < 0 {
		return models.TableSession{}, ValidationError{Field: "price", Message: "must not be negative"}
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.session.Status == models.SessionIdle {
		s.mu.Unlock()
		return models.TableSession{}, fmt.Errorf("add item to idle table %d: %w", tableNumber, ErrInvalidState)
	}

	found := false
	for i := range s.session.Items {
		if s.session.Items[i].ID == item.ID {
			s.session.Items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		item.Quantity = 1
		s.session.Items = append(s.session.Items, item)
	}
	snapshot, version := s.snapshotLocked()
	s.mu.Unlock()

	r.publish(s, snapshot, version)
	return snapshot, nil
}

// Reset discards the table's session and replaces it with a fresh idle one.
func (r *SessionRegistry) Reset(tableNumber int) (models.TableSession, error) {
	s, err := r.slot(tableNumber)
	if err != nil {
		return models.TableSession{}, err
	}

	s.opMu.Lock()
	snapshot, version := r.resetLocked(s, tableNumber)
	s.opMu.Unlock()

	r.publish(s, snapshot, version)
	return snapshot, nil
}

// resetLocked requires s.opMu held.
func (r *SessionRegistry) resetLocked(s *slot, tableNumber int) (models.TableSession, uint64) {
	if s.loop != nil {
		s.loop.halt()
		s.loop = nil
	}

	s.mu.Lock()
	previous := s.session.SessionID
	s.session = newIdleSession(tableNumber)
	snapshot, version := s.snapshotLocked()
	s.mu.Unlock()

	utils.InfoLogger.WithFields(logrus.Fields{
		"table":    tableNumber,
		"previous": previous,
		"session":  snapshot.SessionID,
	}).Info("table session reset")
	return snapshot, version
}

// Settle runs fn against an ended session while holding the table's
// lifecycle lock, and resets the table only if fn succeeds.
func (r *SessionRegistry) Settle(tableNumber int, fn func(models.TableSession) error) error {
	s, err := r.slot(tableNumber)
	if err != nil {
		return err
	}

	s.opMu.Lock()
	s.mu.Lock()
	snapshot := s.session.Clone()
	s.mu.Unlock()
	if snapshot.Status != models.SessionEnded {
		s.opMu.Unlock()
		return fmt.Errorf("settle table %d in status %s: %w", tableNumber, snapshot.Status, ErrInvalidState)
	}

	if err := fn(snapshot); err != nil {
		s.opMu.Unlock()
		return err
	}

	fresh, version := r.resetLocked(s, tableNumber)
	s.opMu.Unlock()

	r.publish(s, fresh, version)
	return nil
}

// Close halts every running ticker. Sessions keep their last state.
func (r *SessionRegistry) Close() {
	for _, s := range r.slots {
		s.opMu.Lock()
		if s.loop != nil {
			s.loop.halt()
			s.loop = nil
		}
		s.opMu.Unlock()
	}
}
