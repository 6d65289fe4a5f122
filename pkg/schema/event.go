package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Progress is emitted while files are transferred.
type Progress struct {
	// Index is the 0-based position of the file being transferred.
	Index int `json:"index"`

	// Count is the number of files in the operation (1 for a single file).
	Count int `json:"count"`

	// Name is the file name of the source being transferred.
	Name string `json:"name,omitempty"`

	// Percent is the overall completion, an integer in [0, 100].
	Percent int `json:"percent"`
}

// Counts are the badge counters shown in the navigation bar.
type Counts struct {
	Notifications int `json:"notifications"`
	Messages      int `json:"messages"`
	Orders        int `json:"orders"`
}

// CountsEvent adjusts counters between polls, for example when a push
// notification arrives or the user opens the inbox. A nil field is left
// unchanged; Reset zeroes the named counters before the deltas apply.
type CountsEvent struct {
	Notifications *int     `json:"notifications,omitempty"`
	Messages      *int     `json:"messages,omitempty"`
	Orders        *int     `json:"orders,omitempty"`
	Reset         []string `json:"reset,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Apply returns counts with the event applied. Counters never go below zero.
func (c Counts) Apply(e CountsEvent) Counts {
	for _, name := range e.Reset {
		switch name {
		case "notifications":
			c.Notifications = 0
		case "messages":
			c.Messages = 0
		case "orders":
			c.Orders = 0
		}
	}
	c.Notifications = addDelta(c.Notifications, e.Notifications)
	c.Messages = addDelta(c.Messages, e.Messages)
	c.Orders = addDelta(c.Orders, e.Orders)
	return c
}

// Total returns the sum of all counters.
func (c Counts) Total() int {
	return c.Notifications + c.Messages + c.Orders
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (p Progress) String() string {
	return types.Stringify(p)
}

func (c Counts) String() string {
	return types.Stringify(c)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func addDelta(v int, delta *int) int {
	if delta == nil {
		return v
	}
	if v += *delta; v < 0 {
		return 0
	}
	return v
}
