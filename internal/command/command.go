// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

/*
Package command provides typed dispatch from HTTP handlers to workflow services.

Handlers build a command value describing an intent (create a sign-up, confirm
a phone number) and hand it to the [Dispatcher], which routes it to the single
handler registered for that command type.

Architecture:

  - Registry: One handler per command type, keyed by the concrete Go type.
  - Wiring-time safety: Duplicate or missing registrations panic at startup,
    never at request time.
  - Type safety: Generic Register and Dispatch keep command and result types
    aligned at compile time.
*/
package command

import (
	"context"
	"fmt"
	"reflect"
)

// Handler is the untyped form a registered handler is stored as.
type Handler func(ctx context.Context, cmd any) (any, error)

// Dispatcher routes commands to their registered handlers.
//
// # Concurrency
//
// Registration happens during wiring, before the server accepts traffic.
// After that the registry is read-only and safe for concurrent Dispatch.
type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[reflect.Type]Handler)}
}

// Register binds a handler to the command type C.
//
// It panics if a handler for C is already registered. Duplicate registration
// is always a wiring bug and should fail at startup.
func Register[C any, R any](d *Dispatcher, handle func(ctx context.Context, cmd C) (R, error)) {
	cmdType := reflect.TypeOf((*C)(nil)).Elem()

	if _, exists := d.handlers[cmdType]; exists {
		panic(fmt.Sprintf("command: handler already registered for %s", cmdType))
	}

	d.handlers[cmdType] = func(ctx context.Context, cmd any) (any, error) {
		return handle(ctx, cmd.(C))
	}
}

// Dispatch routes cmd to its registered handler and returns the typed result.
//
// It panics if no handler is registered for the command's type, since an
// unroutable command can only come from a wiring bug.
func Dispatch[C any, R any](ctx context.Context, d *Dispatcher, cmd C) (R, error) {
	cmdType := reflect.TypeOf((*C)(nil)).Elem()

	handle, found := d.handlers[cmdType]
	if !found {
		panic(fmt.Sprintf("command: no handler registered for %s", cmdType))
	}

	result, err := handle(ctx, cmd)
	if err != nil {
		var zero R
		return zero, err
	}

	typed, ok := result.(R)
	if !ok {
		var zero R
		if result == nil {
			return zero, nil
		}
		panic(fmt.Sprintf("command: handler for %s returned %T, caller expected %s",
			cmdType, result, reflect.TypeOf((*R)(nil)).Elem()))
	}

	return typed, nil
}
