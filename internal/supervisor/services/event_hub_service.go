// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package services

import (
	"context"
)

// ContextHub is satisfied by *websocket.Hub. Declaring it here keeps this
// package free of the websocket import.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// EventHubService runs the model event hub under the supervisor.
//
//	hub := websocket.NewHub()
//	tree.AddAPIService(services.NewEventHubService(hub))
type EventHubService struct {
	hub  ContextHub
	name string
}

// NewEventHubService wraps hub as a supervised service.
func NewEventHubService(hub ContextHub) *EventHubService {
	return &EventHubService{
		hub:  hub,
		name: "event-hub",
	}
}

// Serve implements suture.Service. RunWithContext closes every client and
// returns ctx.Err() on shutdown.
func (s *EventHubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for suture logs.
func (s *EventHubService) String() string {
	return s.name
}
