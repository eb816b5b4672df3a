package group

import (
	"fmt"
	"strings"
	"time"
)

// Group bundles accounts that share rate-limit scaling and upstream routing.
type Group struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Multiplier float64   `json:"rateMultiplier"`
	RouteTag   string    `json:"routeTag,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// New creates a group with validation.
func New(name string, multiplier float64, routeTag string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("group name is required")
	}
	if multiplier <= 0 {
		multiplier = 1.0
	}
	if multiplier > 100 {
		return nil, fmt.Errorf("rate multiplier out of range: %v", multiplier)
	}
	return &Group{
		Name:       name,
		Multiplier: multiplier,
		RouteTag:   strings.TrimSpace(routeTag),
	}, nil
}
