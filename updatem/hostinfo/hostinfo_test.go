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
	"testing"

	"github.com/sysupdater/sysupdater/api/types"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect(t *testing.T) {
	defer func() { hostInfo = host.InfoWithContext }()

	t.Run("test_collect_ok", func(t *testing.T) {
		hostInfo = func(ctx context.Context) (*host.InfoStat, error) {
			return &host.InfoStat{Hostname: "workstation", Platform: "fedora", PlatformVersion: "40", KernelVersion: "6.9.7-200.fc40.x86_64"}, nil
		}
		info, err := Collect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &types.HostInfo{Hostname: "workstation", Platform: "fedora", PlatformVersion: "40", KernelVersion: "6.9.7-200.fc40.x86_64"}, info)
	})

	t.Run("test_collect_err", func(t *testing.T) {
		hostInfo = func(ctx context.Context) (*host.InfoStat, error) {
			return nil, errors.New("no /proc")
		}
		info, err := Collect(context.Background())
		assert.Error(t, err)
		hostname, _ := os.Hostname()
		assert.Equal(t, hostname, info.Hostname)
	})

	t.Run("test_collect_real_host", func(t *testing.T) {
		hostInfo = host.InfoWithContext
		info, err := Collect(context.Background())
		if err == nil {
			assert.NotEmpty(t, info.Hostname)
		}
	})
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "unknown", Hostname(nil))
	assert.Equal(t, "unknown", Hostname(&types.HostInfo{}))
	assert.Equal(t, "workstation", Hostname(&types.HostInfo{Hostname: "workstation"}))
}
