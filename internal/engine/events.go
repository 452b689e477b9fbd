package engine

import (
	"slices"

	"sunrise/internal/catalog"
	"sunrise/internal/storage"
)

type EventKind string

const (
	// EventChanged fires once after every command that changed the snapshot.
	EventChanged             EventKind = "changed"
	EventAchievementUnlocked EventKind = "achievement_unlocked"
	EventSettingsChanged     EventKind = "settings_changed"
	// EventPersistWarning reports a failed save. The in-memory state stays
	// authoritative.
	EventPersistWarning EventKind = "persist_warning"
)

type Event struct {
	Kind    EventKind
	Command string

	Achievement catalog.Achievement                    // EventAchievementUnlocked
	Settings    map[string]storage.NotificationSetting // EventSettingsChanged
	Err         error                                  // EventPersistWarning
}

// Listener receives events after the command that produced them has
// released the store. Listeners may call back into the Service.
type Listener func(Event)

// Subscribe registers l and returns a function that removes it. The first
// listener also receives the events raised while the service was loading.
func (s *Service) Subscribe(l Listener) (unsubscribe func()) {
	s.lmu.Lock()
	s.nextListener++
	id := s.nextListener
	s.listeners[id] = l
	pending := s.pending
	s.pending = nil
	s.lmu.Unlock()

	for _, e := range pending {
		l(e)
	}
	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Service) dispatch(events []Event) {
	if len(events) == 0 {
		return
	}
	s.lmu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	listeners := make([]Listener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.lmu.Unlock()

	for _, e := range events {
		for _, l := range listeners {
			l(e)
		}
	}
}
