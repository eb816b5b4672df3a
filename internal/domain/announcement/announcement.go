package announcement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Announcement is an operator notice shown in the console.
type Announcement struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"` // markdown, rendered by the console
	Level     Level      `json:"level"`
	StartsAt  time.Time  `json:"startsAt"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Level represents announcement severity.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// ValidLevel reports whether l is a known level.
func ValidLevel(l Level) bool {
	return l == LevelInfo || l == LevelWarning || l == LevelCritical
}

// New creates an announcement with validation.
func New(title, body string, level Level, startsAt time.Time, endsAt *time.Time) (*Announcement, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("announcement title is required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("announcement body is required")
	}
	if !ValidLevel(level) {
		level = LevelInfo
	}
	if startsAt.IsZero() {
		startsAt = time.Now()
	}
	if endsAt != nil && endsAt.Before(startsAt) {
		return nil, fmt.Errorf("announcement ends before it starts")
	}
	return &Announcement{
		ID:       uuid.New(),
		Title:    title,
		Body:     body,
		Level:    level,
		StartsAt: startsAt,
		EndsAt:   endsAt,
	}, nil
}

// ActiveAt reports whether the announcement is visible at t.
func (a *Announcement) ActiveAt(t time.Time) bool {
	if t.Before(a.StartsAt) {
		return false
	}
	return a.EndsAt == nil || t.Before(*a.EndsAt)
}
