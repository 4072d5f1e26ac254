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

package types

import (
	"fmt"
	"strings"
)

// TaskKind identifies one of the fixed update task variants.
type TaskKind string

// TaskStatus defines the terminal status of a task within a run.
type TaskStatus string

const (
	// TaskSystem denotes the OS package manager update (dnf5).
	TaskSystem TaskKind = "system"
	// TaskFlatpak denotes the Flatpak application sandbox update.
	TaskFlatpak TaskKind = "flatpak"
	// TaskFirmware denotes the device firmware update (fwupd).
	TaskFirmware TaskKind = "firmware"
)

const (
	// StatusSuccess denotes that the task completed successfully.
	StatusSuccess TaskStatus = "SUCCESS"
	// StatusSkipped denotes that the task had nothing to do or was not applicable.
	StatusSkipped TaskStatus = "SKIPPED"
	// StatusFailed denotes that the external command failed or its output could not be interpreted.
	StatusFailed TaskStatus = "FAILED"
	// StatusCancelled denotes that the task was stopped or never started because the run was cancelled.
	StatusCancelled TaskStatus = "CANCELLED"
)

// CanonicalOrder is the fixed priority order in which tasks are planned.
var CanonicalOrder = []TaskKind{TaskSystem, TaskFlatpak, TaskFirmware}

// Priority returns the position of the task kind within the canonical order, or -1 for unknown kinds.
func (kind TaskKind) Priority() int {
	for i, k := range CanonicalOrder {
		if k == kind {
			return i
		}
	}
	return -1
}

// Label returns the output prefix used to attribute lines to the task.
func (kind TaskKind) Label() string {
	switch kind {
	case TaskSystem:
		return "[DNF5]"
	case TaskFlatpak:
		return "[Flatpak]"
	case TaskFirmware:
		return "[Firmware]"
	default:
		return fmt.Sprintf("[%s]", string(kind))
	}
}

// ParseTaskKind converts the given name to a known task kind.
func ParseTaskKind(name string) (TaskKind, error) {
	kind := TaskKind(strings.ToLower(strings.TrimSpace(name)))
	if kind.Priority() < 0 {
		return "", fmt.Errorf("unknown task '%s'", name)
	}
	return kind, nil
}

// TaskOutcome is the single result produced by a task during a run.
type TaskOutcome struct {
	Task           TaskKind   `json:"task"`
	Status         TaskStatus `json:"status"`
	Changed        bool       `json:"changed"`
	RequiresReboot bool       `json:"requiresReboot"`
	Detail         string     `json:"detail,omitempty"`
}

// IsTerminal returns true if the status is one of the known terminal statuses.
func (status TaskStatus) IsTerminal() bool {
	switch status {
	case StatusSuccess, StatusSkipped, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// ProbeSummary lists the updates a task reported as available.
type ProbeSummary struct {
	Task  TaskKind `json:"task"`
	Items []string `json:"items,omitempty"`
}

// Count returns the number of available updates.
func (summary *ProbeSummary) Count() int {
	if summary == nil {
		return 0
	}
	return len(summary.Items)
}
