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

package cancellation

import (
	"sync"
	"sync/atomic"
)

// Token is a one-shot, run-wide cancellation signal. It is triggered at most once and can never be reset.
type Token struct {
	triggered atomic.Bool
	once      sync.Once
	done      chan struct{}
}

// New creates a token that is not triggered.
func New() *Token {
	return &Token{done: make(chan struct{})}
}

// Trigger sets the token. It returns true only for the call that actually triggered it.
func (token *Token) Trigger() bool {
	first := false
	token.once.Do(func() {
		token.triggered.Store(true)
		close(token.done)
		first = true
	})
	return first
}

// Triggered reports whether the token has been set.
func (token *Token) Triggered() bool {
	return token.triggered.Load()
}

// Done returns a channel that is closed when the token is triggered.
func (token *Token) Done() <-chan struct{} {
	return token.done
}
