// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pacing governs the delay between successive external calls of
// the same kind. The pipeline pauses after every search, fetch, and model
// call; the policy interface lets tests run without sleeping and leaves
// room for adaptive strategies without touching pipeline logic.
package pacing

import (
	"context"
	"time"

	"github.com/pdiddy/dataset-forge/pkg/types"
)

// Kind identifies a class of external call.
type Kind string

const (
	KindSearch Kind = "search"
	KindFetch  Kind = "fetch"
	KindModel  Kind = "model"
)

// Policy decides how long to pause before the next call of a given kind.
type Policy interface {
	// Wait blocks until the next call of the given kind may proceed, or
	// until the context is cancelled.
	Wait(ctx context.Context, kind Kind) error
}

// Fixed pauses a static duration per kind. A zero duration means no pause.
type Fixed struct {
	delays map[Kind]time.Duration
}

// NewFixed builds a Fixed policy from the configured per-kind delays.
// Unset delays fall back to the defaults: 1s search, 1s fetch, 2s model.
func NewFixed(cfg types.PacingConfig) *Fixed {
	delays := map[Kind]time.Duration{
		KindSearch: cfg.SearchDelay,
		KindFetch:  cfg.FetchDelay,
		KindModel:  cfg.ModelDelay,
	}
	if delays[KindSearch] == 0 {
		delays[KindSearch] = time.Second
	}
	if delays[KindFetch] == 0 {
		delays[KindFetch] = time.Second
	}
	if delays[KindModel] == 0 {
		delays[KindModel] = 2 * time.Second
	}
	return &Fixed{delays: delays}
}

// Wait sleeps the fixed delay for kind, returning early on context cancellation.
func (f *Fixed) Wait(ctx context.Context, kind Kind) error {
	d := f.delays[kind]
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Nop never pauses. Tests use it to avoid real sleeps.
type Nop struct{}

// Wait returns immediately.
func (Nop) Wait(context.Context, Kind) error { return nil }
