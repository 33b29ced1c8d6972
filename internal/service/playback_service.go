package service

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fleetops/tracking-backend-go/internal/models"
	"github.com/fleetops/tracking-backend-go/internal/playback"
	"github.com/fleetops/tracking-backend-go/internal/repository"
)

// PlaybackService owns the live playback sessions, keyed by generated id.
// Each session is driven by one UI surface at a time; the registry only
// guards the map itself.
type PlaybackService struct {
	historyRepo *repository.HistoryRepository
	opts        playback.Options

	mu       sync.Mutex
	sessions map[string]*playback.Session
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(historyRepo *repository.HistoryRepository, opts playback.Options) *PlaybackService {
	return &PlaybackService{
		historyRepo: historyRepo,
		opts:        opts,
		sessions:    make(map[string]*playback.Session),
	}
}

// CreateSession fetches the trajectories for the requested assets, loads a
// fresh session with them, and applies the optional date window.
func (s *PlaybackService) CreateSession(assetIDs []string, dateRange *models.DateRange) (string, *playback.Session, error) {
	histories, err := s.historyRepo.GetLocationHistories(assetIDs, 0, 0)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get location histories: %w", err)
	}

	session := playback.NewSession(s.opts)
	session.Load(histories, assetIDs)
	if dateRange != nil {
		session.SetDateRange(dateRange.From, dateRange.To)
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return id, session, nil
}

// GetSession looks up a live session
func (s *PlaybackService) GetSession(id string) (*playback.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("playback session not found")
	}
	return session, nil
}

// Reload replaces a session's histories with a freshly fetched set for the
// given assets.
func (s *PlaybackService) Reload(id string, assetIDs []string) error {
	session, err := s.GetSession(id)
	if err != nil {
		return err
	}
	histories, err := s.historyRepo.GetLocationHistories(assetIDs, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to get location histories: %w", err)
	}
	session.Load(histories, assetIDs)
	return nil
}

// CloseSession tears a session down, cancelling its timer.
func (s *PlaybackService) CloseSession(id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("playback session not found")
	}
	session.Close()
	return nil
}

// CloseAll tears down every live session; used on shutdown.
func (s *PlaybackService) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		session.Close()
		delete(s.sessions, id)
	}
}
