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

package report

import (
	"sync"

	"github.com/sysupdater/sysupdater/api"
	"github.com/sysupdater/sysupdater/api/types"
)

// Multi fans the events out to several handlers, in the order they were added.
type Multi struct {
	lock     sync.RWMutex
	handlers []api.EventHandler
}

// NewMulti returns a handler delivering every event to all non-nil handlers.
func NewMulti(handlers ...api.EventHandler) *Multi {
	multi := &Multi{}
	for _, handler := range handlers {
		multi.Add(handler)
	}
	return multi
}

// Add registers another handler. Events already delivered are not replayed.
func (multi *Multi) Add(handler api.EventHandler) {
	if handler == nil {
		return
	}
	multi.lock.Lock()
	defer multi.lock.Unlock()
	multi.handlers = append(multi.handlers, handler)
}

// HandleEvent delivers the event to each handler.
func (multi *Multi) HandleEvent(event *types.Event) {
	multi.lock.RLock()
	defer multi.lock.RUnlock()
	for _, handler := range multi.handlers {
		handler.HandleEvent(event)
	}
}
