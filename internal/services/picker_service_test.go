package services

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/rangepick/internal/models"
)

type pickerSessionRepositoryStub struct {
	mu        sync.Mutex
	sessions  map[string]models.PickerSession
	updates   *rangeUpdateRepositoryStub
	saveErr   error
	findErr   error
	pruneFrom time.Time
}

func newPickerSessionRepositoryStub(updates *rangeUpdateRepositoryStub) *pickerSessionRepositoryStub {
	return &pickerSessionRepositoryStub{sessions: make(map[string]models.PickerSession), updates: updates}
}

func (stub *pickerSessionRepositoryStub) Create(session *models.PickerSession) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.saveErr != nil {
		return stub.saveErr
	}
	stub.sessions[session.ID] = *session
	return nil
}

func (stub *pickerSessionRepositoryStub) FindByID(id string) (models.PickerSession, bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.findErr != nil {
		return models.PickerSession{}, false, stub.findErr
	}
	session, ok := stub.sessions[id]
	return session, ok, nil
}

func (stub *pickerSessionRepositoryStub) Save(session *models.PickerSession) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.saveErr != nil {
		return stub.saveErr
	}
	stub.sessions[session.ID] = *session
	return nil
}

func (stub *pickerSessionRepositoryStub) SaveWithUpdate(session *models.PickerSession, update *models.RangeUpdate) error {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.saveErr != nil {
		return stub.saveErr
	}
	if err := stub.updates.create(update); err != nil {
		return err
	}
	stub.sessions[session.ID] = *session
	return nil
}

func (stub *pickerSessionRepositoryStub) Delete(id string) (bool, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if _, ok := stub.sessions[id]; !ok {
		return false, nil
	}
	delete(stub.sessions, id)
	return true, nil
}

func (stub *pickerSessionRepositoryStub) DeleteIdleBefore(cutoff time.Time) (int64, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.pruneFrom = cutoff
	var deleted int64
	for id, session := range stub.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(stub.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

type rangeUpdateRepositoryStub struct {
	updates   []models.RangeUpdate
	createErr error
}

func (stub *rangeUpdateRepositoryStub) create(update *models.RangeUpdate) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	update.ID = uint(len(stub.updates) + 1)
	stub.updates = append(stub.updates, *update)
	return nil
}

func (stub *rangeUpdateRepositoryStub) ListByPicker(pickerID string, limit int) ([]models.RangeUpdate, error) {
	result := make([]models.RangeUpdate, 0)
	for _, update := range stub.updates {
		if update.PickerID == pickerID {
			result = append(result, update)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func newTestPickerService(t *testing.T) (*PickerService, *pickerSessionRepositoryStub, *rangeUpdateRepositoryStub) {
	t.Helper()

	updates := &rangeUpdateRepositoryStub{}
	sessions := newPickerSessionRepositoryStub(updates)
	service := NewPickerService(sessions, updates, time.UTC)
	service.now = func() time.Time { return time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC) }
	counter := 0
	service.newID = func() string {
		counter++
		return "picker-" + string(rune('a'+counter-1))
	}
	return service, sessions, updates
}

func TestPickerServiceCreatePersistsInitialState(t *testing.T) {
	service, sessions, _ := newTestPickerService(t)

	id, state, err := service.Create(PickerOptions{
		StartDate: time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.September, 5, 18, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "picker-a" {
		t.Fatalf("unexpected id %q", id)
	}
	stored, ok := sessions.sessions[id]
	if !ok {
		t.Fatal("expected session to be stored")
	}
	if stored.StartTime != "08:00:00" || stored.EndTime != "18:00:00" {
		t.Fatalf("unexpected stored times %q / %q", stored.StartTime, stored.EndTime)
	}
	if stored.CenterMonth != int(time.September) || stored.CenterYear != 2026 {
		t.Fatalf("unexpected stored center %d-%d", stored.CenterYear, stored.CenterMonth)
	}

	loaded, err := service.Load(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != state {
		t.Fatalf("expected loaded state %+v, got %+v", state, loaded)
	}
}

func TestPickerServiceClickFlowPersistsBetweenCalls(t *testing.T) {
	service, _, _ := newTestPickerService(t)
	id, _, err := service.Create(PickerOptions{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	state, changed, err := service.Click(id, day(2026, time.October, 20))
	if err != nil || !changed || !state.PickingEnd {
		t.Fatalf("first click: changed=%v err=%v state=%+v", changed, err, state)
	}

	state, changed, err = service.Click(id, day(2026, time.October, 18))
	if err != nil {
		t.Fatalf("earlier click: %v", err)
	}
	if changed || !state.PickingEnd {
		t.Fatalf("expected earlier click to be ignored, got changed=%v state=%+v", changed, state)
	}

	state, changed, err = service.Click(id, day(2026, time.October, 24))
	if err != nil || !changed || state.PickingEnd {
		t.Fatalf("closing click: changed=%v err=%v state=%+v", changed, err, state)
	}
	if !state.Range.Start.Equal(day(2026, time.October, 20)) || !state.Range.End.Equal(day(2026, time.October, 24)) {
		t.Fatalf("unexpected range %+v", state.Range)
	}
}

func TestPickerServiceApplyRecordsUpdate(t *testing.T) {
	service, _, updates := newTestPickerService(t)
	id, _, err := service.Create(PickerOptions{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Mutate(id, func(picker *RangePicker) error {
		visible := true
		return picker.Update(PickerProps{Visible: &visible})
	}); err != nil {
		t.Fatalf("focus: %v", err)
	}

	state, event, err := service.Apply(id)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if state.Visible {
		t.Fatal("expected apply to hide the picker")
	}
	if len(updates.updates) != 1 {
		t.Fatalf("expected one recorded update, got %d", len(updates.updates))
	}
	if !updates.updates[0].RangeStart.Equal(event.Start) || updates.updates[0].PickerID != id {
		t.Fatalf("unexpected recorded update %+v", updates.updates[0])
	}

	history, err := service.History(id, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || !history[0].End.Equal(event.End) {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestPickerServiceApplyFailsWhenUpdateCannotBeRecorded(t *testing.T) {
	service, sessions, updates := newTestPickerService(t)
	id, _, err := service.Create(PickerOptions{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Mutate(id, func(picker *RangePicker) error {
		visible := true
		return picker.Update(PickerProps{Visible: &visible})
	}); err != nil {
		t.Fatalf("focus: %v", err)
	}
	updates.createErr = errors.New("disk full")

	if _, _, err := service.Apply(id); !errors.Is(err, ErrRangeUpdateFailed) {
		t.Fatalf("expected ErrRangeUpdateFailed, got %v", err)
	}
	if !sessions.sessions[id].Visible {
		t.Fatal("expected session to stay untouched after failed apply")
	}
}

func TestPickerServiceApplyRecordsNothingWhenSessionSaveFails(t *testing.T) {
	service, sessions, updates := newTestPickerService(t)
	id, _, err := service.Create(PickerOptions{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Mutate(id, func(picker *RangePicker) error {
		visible := true
		return picker.Update(PickerProps{Visible: &visible})
	}); err != nil {
		t.Fatalf("focus: %v", err)
	}
	sessions.saveErr = errors.New("disk full")

	if _, _, err := service.Apply(id); err == nil {
		t.Fatal("expected apply to fail when the session cannot be saved")
	}
	if len(updates.updates) != 0 {
		t.Fatalf("expected no recorded update, got %d", len(updates.updates))
	}
	if !sessions.sessions[id].Visible {
		t.Fatal("expected picker to stay visible after failed apply")
	}

	sessions.saveErr = nil
	history, err := service.History(id, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %+v", history)
	}
}

func TestPickerServiceSerializesMutationsPerPicker(t *testing.T) {
	service, _, _ := newTestPickerService(t)
	id, initial, err := service.Create(PickerOptions{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const steps = 40
	var wg sync.WaitGroup
	for index := 0; index < steps; index++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.Mutate(id, func(picker *RangePicker) error {
				return picker.Navigate(1)
			}); err != nil {
				t.Errorf("navigate: %v", err)
			}
		}()
	}
	wg.Wait()

	state, err := service.Load(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := initial.Center.Offset(steps); state.Center != want {
		t.Fatalf("expected center %+v after %d navigations, got %+v", want, steps, state.Center)
	}
	if len(service.locks.entries) != 0 {
		t.Fatalf("expected picker locks to be released, got %d", len(service.locks.entries))
	}
}

func TestPickerServiceErrors(t *testing.T) {
	service, sessions, _ := newTestPickerService(t)

	if _, err := service.Load("missing"); !errors.Is(err, ErrPickerNotFound) {
		t.Fatalf("expected ErrPickerNotFound, got %v", err)
	}
	if err := service.Destroy("missing"); !errors.Is(err, ErrPickerNotFound) {
		t.Fatalf("expected ErrPickerNotFound on destroy, got %v", err)
	}
	if _, err := service.History("missing", 5); !errors.Is(err, ErrPickerNotFound) {
		t.Fatalf("expected ErrPickerNotFound on history, got %v", err)
	}

	sessions.findErr = errors.New("locked")
	if _, err := service.Load("any"); !errors.Is(err, ErrPickerLoadFailed) {
		t.Fatalf("expected ErrPickerLoadFailed, got %v", err)
	}
	sessions.findErr = nil

	sessions.saveErr = errors.New("readonly")
	if _, _, err := service.Create(PickerOptions{}); !errors.Is(err, ErrPickerSaveFailed) {
		t.Fatalf("expected ErrPickerSaveFailed, got %v", err)
	}
}

func TestPickerServiceDestroyAndPrune(t *testing.T) {
	service, sessions, _ := newTestPickerService(t)
	id, _, err := service.Create(PickerOptions{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := service.Destroy(id); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, ok := sessions.sessions[id]; ok {
		t.Fatal("expected session removed")
	}

	staleID, _, err := service.Create(PickerOptions{})
	if err != nil {
		t.Fatalf("create stale: %v", err)
	}
	stale := sessions.sessions[staleID]
	stale.UpdatedAt = time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	sessions.sessions[staleID] = stale

	deleted, err := service.PruneIdle(24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 pruned session, got %d", deleted)
	}
	if !sessions.pruneFrom.Equal(time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected prune cutoff %s", sessions.pruneFrom)
	}

	if _, err := service.PruneIdle(0); !errors.Is(err, ErrPickerTTLInvalid) {
		t.Fatalf("expected ErrPickerTTLInvalid, got %v", err)
	}
}
