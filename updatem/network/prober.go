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

package network

import (
	"context"
	"net/http"
	"time"

	"github.com/sysupdater/sysupdater/api"
	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/logger"

	"github.com/pkg/errors"
)

type httpProber struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewProber creates a prober issuing a single HEAD request to the given URL.
// Any HTTP response counts as connectivity, the status code is not inspected.
func NewProber(url string, timeout time.Duration) api.Prober {
	return &httpProber{
		url:     url,
		timeout: timeout,
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (prober *httpProber) Check(ctx context.Context, token api.CancellationToken) error {
	checkCtx, cancel := context.WithTimeout(ctx, prober.timeout)
	defer cancel()

	if token != nil {
		if token.Triggered() {
			return types.ErrCancelled
		}
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-token.Done():
				cancel()
			case <-stop:
			}
		}()
	}

	request, err := http.NewRequestWithContext(checkCtx, http.MethodHead, prober.url, nil)
	if err != nil {
		return errors.Wrapf(types.ErrNetworkUnavailable, "invalid check URL '%s': %v", prober.url, err)
	}

	logger.Debug("checking network connectivity with HEAD %s, timeout %v", prober.url, prober.timeout)
	start := time.Now()
	response, err := prober.client.Do(request)
	if err != nil {
		if token != nil && token.Triggered() {
			return types.ErrCancelled
		}
		if errors.Is(checkCtx.Err(), context.DeadlineExceeded) {
			return errors.Wrapf(types.ErrNetworkUnavailable, "HEAD %s: no response within %v", prober.url, prober.timeout)
		}
		return errors.Wrapf(types.ErrNetworkUnavailable, "HEAD %s: %v", prober.url, err)
	}
	response.Body.Close()
	logger.Debug("network connectivity confirmed, HEAD %s returned %d in %v", prober.url, response.StatusCode, time.Since(start))
	return nil
}
