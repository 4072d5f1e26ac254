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

package app

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/logger"

	"github.com/fatih/color"
)

func (launcher *launcher) shouldPromptReboot(intent *types.RunIntent, result *types.RunResult) bool {
	return result.RequiresReboot &&
		!result.DryRun &&
		result.OverallStatus != types.OverallAborted &&
		!intent.SkipRebootPrompt &&
		launcher.isTerminal()
}

// promptReboot asks the user whether to reboot now and reboots the host on confirmation.
func (launcher *launcher) promptReboot(delay time.Duration) error {
	out := launcher.stdout
	fmt.Fprintf(out, "\n%s\n", color.New(color.FgYellow, color.Bold).Sprint("A system reboot is recommended."))
	fmt.Fprintln(out, "  1. Reboot now")
	fmt.Fprintln(out, "  2. Exit without rebooting")
	fmt.Fprint(out, "\nChoice [1/2]: ")

	choice, err := bufio.NewReader(launcher.stdin).ReadString('\n')
	if err != nil && choice == "" {
		logger.DebugErr(err, "no reboot choice read:")
	}
	if strings.TrimSpace(choice) != "1" {
		fmt.Fprintln(out, color.GreenString("Exiting without reboot."))
		return nil
	}
	logger.Info("reboot requested by the user")
	return launcher.rebootManager.Reboot(delay)
}
