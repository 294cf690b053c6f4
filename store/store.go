// Package store keeps the small amount of state remembered between runs:
// the events the user recently opened. Filters are never persisted.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	appDir          = "concertcloud-cli"
	recentEventFile = "recent_events.json"
	maxRecentEvents = 8
)

type RecentEvent struct {
	EventID  int       `json:"event_id"`
	Venue    string    `json:"venue"`
	OpenedAt time.Time `json:"opened_at"`
}

type eventHistory struct {
	Events []RecentEvent `json:"events"`
}

func LoadRecentEvents() ([]RecentEvent, error) {
	path, err := configPath(recentEventFile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history eventHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid event history format")
	}
	return history.Events, nil
}

// RememberEvent moves eventID to the front of the history. An empty venue
// keeps the name stored from an earlier visit.
func RememberEvent(eventID int, venue string) error {
	if eventID < 1 {
		return errors.New("event id must be positive")
	}
	history, _ := LoadRecentEvents()
	venue = strings.TrimSpace(venue)

	next := []RecentEvent{{EventID: eventID, Venue: venue, OpenedAt: time.Now().UTC()}}
	for _, existing := range history {
		if existing.EventID == eventID {
			if venue == "" {
				next[0].Venue = existing.Venue
			}
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentEvents {
			break
		}
	}
	return saveRecentEvents(next)
}

func saveRecentEvents(events []RecentEvent) error {
	path, err := configPath(recentEventFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(eventHistory{Events: events}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}
