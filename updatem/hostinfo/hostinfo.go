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

package hostinfo

import (
	"context"
	"os"

	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/logger"

	"github.com/shirou/gopsutil/v3/host"
)

var hostInfo = host.InfoWithContext

// Collect returns the basic facts about the host being updated.
// If the host facts cannot be read, the hostname reported by the kernel is used alone.
func Collect(ctx context.Context) (*types.HostInfo, error) {
	info, err := hostInfo(ctx)
	if err != nil {
		logger.DebugErr(err, "cannot read host information")
		hostname, hostErr := os.Hostname()
		if hostErr != nil {
			return nil, err
		}
		return &types.HostInfo{Hostname: hostname}, err
	}
	return &types.HostInfo{
		Hostname:        info.Hostname,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
	}, nil
}

// Hostname returns the host name to use in topics and reports, "unknown" if none can be determined.
func Hostname(info *types.HostInfo) string {
	if info == nil || info.Hostname == "" {
		return "unknown"
	}
	return info.Hostname
}
