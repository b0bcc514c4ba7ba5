package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/rangepick/internal/models"
)

var (
	ErrPickerNotFound     = errors.New("picker not found")
	ErrPickerLoadFailed   = errors.New("load picker failed")
	ErrPickerSaveFailed   = errors.New("save picker failed")
	ErrPickerDeleteFailed = errors.New("delete picker failed")
	ErrRangeUpdateFailed  = errors.New("record range update failed")
	ErrRangeHistoryFailed = errors.New("load range history failed")
	ErrPickerPruneFailed  = errors.New("prune pickers failed")
	ErrPickerTTLInvalid   = errors.New("picker ttl must be positive")
)

const defaultHistoryPageSize = 20

type AppliedRange struct {
	UpdateEvent
	AppliedAt time.Time `json:"applied_at"`
}

type PickerSessionRepository interface {
	Create(session *models.PickerSession) error
	FindByID(id string) (models.PickerSession, bool, error)
	Save(session *models.PickerSession) error
	SaveWithUpdate(session *models.PickerSession, update *models.RangeUpdate) error
	Delete(id string) (bool, error)
	DeleteIdleBefore(cutoff time.Time) (int64, error)
}

type RangeUpdateRepository interface {
	ListByPicker(pickerID string, limit int) ([]models.RangeUpdate, error)
}

type PickerService struct {
	sessions PickerSessionRepository
	updates  RangeUpdateRepository
	location *time.Location
	now      func() time.Time
	newID    func() string
	locks    *pickerLocks
}

func NewPickerService(sessions PickerSessionRepository, updates RangeUpdateRepository, location *time.Location) *PickerService {
	if location == nil {
		location = time.UTC
	}
	return &PickerService{
		sessions: sessions,
		updates:  updates,
		location: location,
		now:      time.Now,
		newID:    uuid.NewString,
		locks:    newPickerLocks(),
	}
}

func (service *PickerService) Location() *time.Location {
	return service.location
}

func (service *PickerService) Create(options PickerOptions) (string, PickerState, error) {
	picker := NewRangePicker(service.location, service.now)
	if err := picker.Create(options); err != nil {
		return "", PickerState{}, err
	}

	session := models.PickerSession{ID: service.newID()}
	ApplyPickerState(&session, picker.State())
	if err := service.sessions.Create(&session); err != nil {
		return "", PickerState{}, ErrPickerSaveFailed
	}
	return session.ID, picker.State(), nil
}

func (service *PickerService) Load(id string) (PickerState, error) {
	session, err := service.loadSession(id)
	if err != nil {
		return PickerState{}, err
	}
	return PickerStateFromSession(session, service.location), nil
}

// Mutate restores the picker behind id, runs change against it and persists
// the resulting state. Nothing is written when change fails. Mutations of the
// same picker run one at a time.
func (service *PickerService) Mutate(id string, change func(picker *RangePicker) error) (PickerState, error) {
	unlock := service.locks.lock(id)
	defer unlock()

	session, picker, err := service.restore(id)
	if err != nil {
		return PickerState{}, err
	}
	if err := change(picker); err != nil {
		return PickerState{}, err
	}

	ApplyPickerState(&session, picker.State())
	if err := service.sessions.Save(&session); err != nil {
		return PickerState{}, ErrPickerSaveFailed
	}
	return picker.State(), nil
}

func (service *PickerService) Click(id string, day time.Time) (PickerState, bool, error) {
	changed := false
	state, err := service.Mutate(id, func(picker *RangePicker) error {
		var clickErr error
		changed, clickErr = picker.Click(day)
		return clickErr
	})
	return state, changed, err
}

// Apply finalizes the range, hides the picker and records the emitted update.
// The session and its update are written together or not at all.
func (service *PickerService) Apply(id string) (PickerState, UpdateEvent, error) {
	unlock := service.locks.lock(id)
	defer unlock()

	session, picker, err := service.restore(id)
	if err != nil {
		return PickerState{}, UpdateEvent{}, err
	}

	var update *models.RangeUpdate
	picker.Subscribe(func(applied UpdateEvent) {
		update = &models.RangeUpdate{
			PickerID:   id,
			RangeStart: applied.Start,
			RangeEnd:   applied.End,
		}
	})
	event, err := picker.Apply()
	if err != nil {
		return PickerState{}, UpdateEvent{}, err
	}

	ApplyPickerState(&session, picker.State())
	if err := service.sessions.SaveWithUpdate(&session, update); err != nil {
		return PickerState{}, UpdateEvent{}, ErrRangeUpdateFailed
	}
	return picker.State(), event, nil
}

func (service *PickerService) Destroy(id string) error {
	unlock := service.locks.lock(id)
	defer unlock()

	deleted, err := service.sessions.Delete(id)
	if err != nil {
		return ErrPickerDeleteFailed
	}
	if !deleted {
		return ErrPickerNotFound
	}
	return nil
}

func (service *PickerService) History(id string, limit int) ([]AppliedRange, error) {
	if _, err := service.loadSession(id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}

	updates, err := service.updates.ListByPicker(id, limit)
	if err != nil {
		return nil, ErrRangeHistoryFailed
	}
	history := make([]AppliedRange, 0, len(updates))
	for _, update := range updates {
		history = append(history, AppliedRange{
			UpdateEvent: UpdateEvent{
				Start: update.RangeStart.In(service.location),
				End:   update.RangeEnd.In(service.location),
			},
			AppliedAt: update.CreatedAt,
		})
	}
	return history, nil
}

func (service *PickerService) PruneIdle(ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, ErrPickerTTLInvalid
	}
	deleted, err := service.sessions.DeleteIdleBefore(service.now().Add(-ttl))
	if err != nil {
		return 0, ErrPickerPruneFailed
	}
	return deleted, nil
}

func (service *PickerService) restore(id string) (models.PickerSession, *RangePicker, error) {
	session, err := service.loadSession(id)
	if err != nil {
		return models.PickerSession{}, nil, err
	}
	picker := NewRangePicker(service.location, service.now)
	picker.Restore(PickerStateFromSession(session, service.location))
	return session, picker, nil
}

func (service *PickerService) loadSession(id string) (models.PickerSession, error) {
	session, found, err := service.sessions.FindByID(id)
	if err != nil {
		return models.PickerSession{}, ErrPickerLoadFailed
	}
	if !found {
		return models.PickerSession{}, ErrPickerNotFound
	}
	return session, nil
}

// pickerLocks hands out one mutex per picker id and forgets it once no
// caller holds or waits on it.
type pickerLocks struct {
	mu      sync.Mutex
	entries map[string]*pickerLock
}

type pickerLock struct {
	mu   sync.Mutex
	refs int
}

func newPickerLocks() *pickerLocks {
	return &pickerLocks{entries: make(map[string]*pickerLock)}
}

func (locks *pickerLocks) lock(id string) func() {
	locks.mu.Lock()
	entry, ok := locks.entries[id]
	if !ok {
		entry = &pickerLock{}
		locks.entries[id] = entry
	}
	entry.refs++
	locks.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		locks.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(locks.entries, id)
		}
		locks.mu.Unlock()
	}
}
