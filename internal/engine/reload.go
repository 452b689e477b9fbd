package engine

import (
	"bytes"
	"context"
	"errors"
	"maps"

	"sunrise/internal/storage"
)

// Reload swaps in the stored snapshot when another process has changed it.
// A corrupt row keeps the current state.
func (s *Service) Reload(ctx context.Context) error {
	snap, err := s.snapshots.Load(ctx, storage.MainSnapshotKey)
	if err != nil {
		if errors.Is(err, storage.ErrCorruptSnapshot) {
			s.logger.Warn("stored snapshot is corrupt, keeping current state", "err", err)
			return nil
		}
		return err
	}

	s.mu.Lock()
	cur, err := storage.Encode(s.state)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next, err := storage.Encode(snap)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if bytes.Equal(cur, next) {
		s.mu.Unlock()
		return nil
	}

	var events []Event
	if !maps.Equal(s.state.NotificationSettings, snap.NotificationSettings) {
		events = append(events, Event{Kind: EventSettingsChanged, Command: "reload", Settings: maps.Clone(snap.NotificationSettings)})
	}
	events = append(events, Event{Kind: EventChanged, Command: "reload"})
	s.state = snap
	s.mu.Unlock()

	s.dispatch(events)
	return nil
}
