// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"agrolink_backend/platform/events"
	"agrolink_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *events.InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserLoggedIn is published after a successful OTP verification.
type UserLoggedIn struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Phone  string    `json:"phone"`
}

func (e UserLoggedIn) EventName() string { return "auth.user.logged_in" }

func NewUserLoggedIn(userID uuid.UUID, phone string) UserLoggedIn {
	return UserLoggedIn{BaseEvent: NewBaseEvent(), UserID: userID, Phone: phone}
}

// =============================================================================
// Buyers Domain Events
// =============================================================================

// BuyerSearchPerformed is published after a ranked buyer search completes.
type BuyerSearchPerformed struct {
	BaseEvent
	UserID     uuid.UUID `json:"userId"`
	CropType   string    `json:"cropType"`
	Candidates int       `json:"candidates"`
	Returned   int       `json:"returned"`
}

func (e BuyerSearchPerformed) EventName() string { return "buyers.search.performed" }

func NewBuyerSearchPerformed(userID uuid.UUID, cropType string, candidates, returned int) BuyerSearchPerformed {
	return BuyerSearchPerformed{
		BaseEvent:  NewBaseEvent(),
		UserID:     userID,
		CropType:   cropType,
		Candidates: candidates,
		Returned:   returned,
	}
}

// =============================================================================
// Calls Domain Events
// =============================================================================

// CallLogged is published when a farmer records an outbound call.
type CallLogged struct {
	BaseEvent
	CallID      uuid.UUID `json:"callId"`
	CallerID    uuid.UUID `json:"callerId"`
	CalleePhone string    `json:"calleePhone"`
	Direction   string    `json:"direction"`
}

func (e CallLogged) EventName() string { return "calls.call.logged" }

func NewCallLogged(callID, callerID uuid.UUID, calleePhone, direction string) CallLogged {
	return CallLogged{
		BaseEvent:   NewBaseEvent(),
		CallID:      callID,
		CallerID:    callerID,
		CalleePhone: calleePhone,
		Direction:   direction,
	}
}
