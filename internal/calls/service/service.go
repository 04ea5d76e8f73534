package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrolink_backend/internal/calls/repository"
	"agrolink_backend/internal/calls/transport"
	domainevents "agrolink_backend/internal/events"
	"agrolink_backend/platform/apperr"
	"agrolink_backend/platform/events"
	"agrolink_backend/platform/logger"
	"agrolink_backend/platform/phone"
)

var validCallStatuses = map[string]bool{
	"initiated": true,
	"completed": true,
	"missed":    true,
	"declined":  true,
}

type Service struct {
	store repository.Store
	bus   events.Bus
	log   *logger.Logger
}

func New(store repository.Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// Log records a new call and publishes a CallLogged event.
func (s *Service) Log(ctx context.Context, callerID uuid.UUID, callerPhone string, req transport.CreateCallRequest) (*transport.CallResponse, error) {
	calleePhone := phone.NormalizeE164(strings.TrimSpace(req.CalleePhone))
	if !phone.IsValid(calleePhone) {
		return nil, apperr.Validation("invalid calleePhone")
	}

	direction := strings.ToLower(strings.TrimSpace(req.Direction))
	if direction != "outgoing" && direction != "incoming" {
		return nil, apperr.Validation("direction must be outgoing or incoming")
	}

	call := repository.Call{
		CallerID:    callerID,
		CallerPhone: callerPhone,
		CalleePhone: calleePhone,
		Direction:   direction,
	}
	if req.BuyerID != "" {
		buyerID, err := uuid.Parse(req.BuyerID)
		if err != nil {
			return nil, apperr.Validation("invalid buyerId")
		}
		call.BuyerID = &buyerID
	}

	created, err := s.store.Create(ctx, call)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, domainevents.NewCallLogged(created.ID, callerID, calleePhone, direction))

	resp := toResponse(created)
	return &resp, nil
}

// History returns the user's recent calls as caller or callee.
func (s *Service) History(ctx context.Context, userID uuid.UUID, userPhone string) (*transport.CallsResponse, error) {
	calls, err := s.store.ListForUser(ctx, userID, userPhone)
	if err != nil {
		return nil, err
	}

	resp := &transport.CallsResponse{Calls: make([]transport.CallResponse, 0, len(calls))}
	for i := range calls {
		resp.Calls = append(resp.Calls, toResponse(&calls[i]))
	}
	return resp, nil
}

// Update amends the outcome of a call the user placed.
func (s *Service) Update(ctx context.Context, callerID, id uuid.UUID, req transport.UpdateCallRequest) (*transport.CallResponse, error) {
	call, err := s.store.FindByID(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*req.Status))
		if !validCallStatuses[status] {
			return nil, apperr.Validation("invalid call status")
		}
		call.Status = status
	}
	if req.DurationSeconds != nil {
		if *req.DurationSeconds < 0 {
			return nil, apperr.Validation("durationSeconds must not be negative")
		}
		call.DurationSeconds = *req.DurationSeconds
	}
	if req.Notes != nil {
		call.Notes = strings.TrimSpace(*req.Notes)
	}

	updated, err := s.store.Update(ctx, *call)
	if err != nil {
		return nil, err
	}
	resp := toResponse(updated)
	return &resp, nil
}

func toResponse(c *repository.Call) transport.CallResponse {
	return transport.CallResponse{
		ID:              c.ID,
		CalleePhone:     c.CalleePhone,
		Direction:       c.Direction,
		Status:          c.Status,
		DurationSeconds: c.DurationSeconds,
		Notes:           c.Notes,
		BuyerID:         c.BuyerID,
		CreatedAt:       c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
