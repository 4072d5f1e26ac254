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
	"context"
	"fmt"
	"os"

	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/config"

	"github.com/spf13/cobra"
)

const longDescription = `Update the system packages (dnf5), the Flatpak applications and the device firmware (fwupd) in one go.

Examples:
  sudo sysupdater -r                  # check for available updates
  sudo sysupdater -u                  # update everything enabled in the configuration
  sudo sysupdater -u -f               # update everything, including firmware
  sudo sysupdater -u -n               # preview what would be updated
  sudo sysupdater --update-flatpak    # update only the Flatpak applications

Configuration files:
  /etc/sysupdater.toml
  ~/.config/sysupdater/config.toml`

// Execute runs the sysupdater command line with the given arguments and returns the process exit code.
func Execute(version string, args []string) int {
	exitCode := types.ExitSuccess
	command := newCommand(version, newLauncher(), &exitCode)
	command.SetArgs(args)
	if err := command.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return types.ExitFailure
	}
	return exitCode
}

func newCommand(version string, launcher *launcher, exitCode *int) *cobra.Command {
	flags := &config.Flags{}
	command := &cobra.Command{
		Use:           "sysupdater [OPTIONS]",
		Short:         "Fedora system update orchestrator",
		Long:          longDescription,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !flags.HasAction() {
				return cmd.Help()
			}
			launcher.stdout = cmd.OutOrStdout()
			launcher.stderr = cmd.ErrOrStderr()
			*exitCode = launcher.launch(cmd.Context(), flags)
			return nil
		},
	}
	config.SetupFlags(command.Flags(), flags)
	return command
}
