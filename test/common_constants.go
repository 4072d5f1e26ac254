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
	"time"

	"github.com/sysupdater/sysupdater/api/types"
)

//RunID test constant
const RunID = "testRunId"

//Interval test constant
const Interval = 1 * time.Second

//GracePeriod test constant
const GracePeriod = 200 * time.Millisecond

//AllTasks test constant
var AllTasks = []types.TaskKind{types.TaskSystem, types.TaskFlatpak, types.TaskFirmware}
