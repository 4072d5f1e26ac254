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
	"strings"
	"time"
)

// Command describes a single invocation of an external update command.
type Command struct {
	Task TaskKind
	Name string
	Args []string
}

// String returns the command line as it would be typed in a shell.
func (command *Command) String() string {
	if len(command.Args) == 0 {
		return command.Name
	}
	return command.Name + " " + strings.Join(command.Args, " ")
}

// CommandResult holds the exit status and the collected output of a finished command.
type CommandResult struct {
	ExitCode  int
	Lines     []string
	Cancelled bool
	Killed    bool
	Duration  time.Duration
}

// Output returns all collected output lines joined by new lines.
func (result *CommandResult) Output() string {
	return strings.Join(result.Lines, "\n")
}

// Contains reports whether any output line contains the given text, ignoring case.
func (result *CommandResult) Contains(text string) bool {
	text = strings.ToLower(text)
	for _, line := range result.Lines {
		if strings.Contains(strings.ToLower(line), text) {
			return true
		}
	}
	return false
}
