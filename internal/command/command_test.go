// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lureyes/altura/internal/command"
)

type greetCommand struct {
	Name string
}

type addCommand struct {
	A, B int
}

/*
TestDispatcher_RoutesByCommandType verifies that each command type reaches
its own handler with results intact.
*/
func TestDispatcher_RoutesByCommandType(t *testing.T) {
	d := command.NewDispatcher()

	command.Register(d, func(_ context.Context, cmd greetCommand) (string, error) {
		return "hello " + cmd.Name, nil
	})
	command.Register(d, func(_ context.Context, cmd addCommand) (int, error) {
		return cmd.A + cmd.B, nil
	})

	greeting, err := command.Dispatch[greetCommand, string](context.Background(), d, greetCommand{Name: "lucas"})
	require.NoError(t, err)
	assert.Equal(t, "hello lucas", greeting)

	sum, err := command.Dispatch[addCommand, int](context.Background(), d, addCommand{A: 2, B: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, sum)
}

/*
TestDispatcher_PropagatesHandlerError verifies that handler errors reach
the caller with a zero result.
*/
func TestDispatcher_PropagatesHandlerError(t *testing.T) {
	d := command.NewDispatcher()
	boom := errors.New("boom")

	command.Register(d, func(_ context.Context, _ greetCommand) (string, error) {
		return "", boom
	})

	result, err := command.Dispatch[greetCommand, string](context.Background(), d, greetCommand{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, result)
}

/*
TestDispatcher_DuplicateRegistrationPanics verifies the wiring-time guard
against registering two handlers for the same command.
*/
func TestDispatcher_DuplicateRegistrationPanics(t *testing.T) {
	d := command.NewDispatcher()

	command.Register(d, func(_ context.Context, _ greetCommand) (string, error) {
		return "", nil
	})

	assert.Panics(t, func() {
		command.Register(d, func(_ context.Context, _ greetCommand) (string, error) {
			return "", nil
		})
	})
}

/*
TestDispatcher_UnregisteredCommandPanics verifies that dispatching a command
nobody handles fails loudly.
*/
func TestDispatcher_UnregisteredCommandPanics(t *testing.T) {
	d := command.NewDispatcher()

	assert.Panics(t, func() {
		_, _ = command.Dispatch[greetCommand, string](context.Background(), d, greetCommand{})
	})
}
