// Copyright (c) 2023 Contributors to the Eclipse Foundation
//
// See the NOTICE file(s) distributed with this work for additional
// information regarding copyright ownership.
//
// This program and the accompanying materials are made available under the
// terms of the Eclipse Public License 2.0 which is available at
// https://www.eclipse.org/legal/epl-2.0, or the Apache License, Version 2.0
// which is available at https://www.apache.org/licenses/LICENSE-2.0.
//
// SPDX-License-Identifier: EPL-2.0 OR Apache-2.0

package test

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/sysupdater/sysupdater/api/types"

	"github.com/stretchr/testify/assert"
)

// AssertWithTimeout asserts that an operation is completed within a certain period of time
func AssertWithTimeout(t *testing.T, waitGroup *sync.WaitGroup, testTimeout time.Duration) {
	testWaitChan := make(chan struct{})
	go func() {
		defer close(testWaitChan)
		waitGroup.Wait()
	}()
	select {
	case <-testWaitChan:
		return // completed normally
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for ", testTimeout)
	}
}

// AssertOutcomeTasks asserts that the outcomes belong exactly to the given tasks, in the given order
func AssertOutcomeTasks(t *testing.T, expected []types.TaskKind, outcomes []*types.TaskOutcome) {
	actual := make([]types.TaskKind, len(outcomes))
	for i, outcome := range outcomes {
		actual[i] = outcome.Task
	}
	assert.Equal(t, expected, actual)
}

// AssertEventTypesWithoutOrder asserts that both lists hold the same event types, regardless of their order
func AssertEventTypesWithoutOrder(t *testing.T, expected, actual []types.EventType) {
	assert.True(t, compareSlicesWithoutOrder(expected, actual), "expected %v, got %v", expected, actual)
}

// CreateOutcome function for creation of TaskOutcome
func CreateOutcome(task types.TaskKind, status types.TaskStatus, changed, requiresReboot bool) *types.TaskOutcome {
	return &types.TaskOutcome{
		Task:           task,
		Status:         status,
		Changed:        changed,
		RequiresReboot: requiresReboot,
	}
}

// EventRecorder is an event handler that keeps all received events, safe for concurrent use
type EventRecorder struct {
	mutex  sync.Mutex
	events []*types.Event
}

// HandleEvent records the event
func (recorder *EventRecorder) HandleEvent(event *types.Event) {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	recorder.events = append(recorder.events, event)
}

// Events returns a copy of the recorded events
func (recorder *EventRecorder) Events() []*types.Event {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	return append([]*types.Event(nil), recorder.events...)
}

// OfType returns the recorded events of the given type, in the order they were received
func (recorder *EventRecorder) OfType(eventType types.EventType) []*types.Event {
	var result []*types.Event
	for _, event := range recorder.Events() {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}

// States returns the states of all recorded state changes, in the order they were received
func (recorder *EventRecorder) States() []types.RunState {
	var states []types.RunState
	for _, event := range recorder.OfType(types.EventStateChanged) {
		states = append(states, event.State)
	}
	return states
}

func compareSlicesWithoutOrder(expected, actual interface{}) bool {
	expectedValue := reflect.ValueOf(expected)
	actualValue := reflect.ValueOf(actual)

	if expectedValue.Len() != actualValue.Len() {
		return false
	}
	used := make([]bool, actualValue.Len())
	for a := 0; a < expectedValue.Len(); a++ {
		present := false
		for b := 0; b < actualValue.Len(); b++ {
			if !used[b] && reflect.DeepEqual(expectedValue.Index(a).Interface(), actualValue.Index(b).Interface()) {
				used[b] = true
				present = true
				break
			}
		}
		if !present {
			return false
		}
	}
	return true
}
