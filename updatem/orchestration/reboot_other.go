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

//go:build !linux

package orchestration

import (
	"fmt"
	"runtime"
	"time"
)

// RebootManager defines an interface for restarting the host system
type RebootManager interface {
	Reboot(time.Duration) error
}

type rebootManager struct{}

// NewRebootManager creates a manager that cannot restart the host, rebooting is only supported on Linux.
func NewRebootManager() RebootManager {
	return &rebootManager{}
}

func (rebootManager *rebootManager) Reboot(time.Duration) error {
	return fmt.Errorf("reboot not supported on %s", runtime.GOOS)
}
