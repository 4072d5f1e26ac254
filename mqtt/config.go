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

package mqtt

const (
	// default mqtt connection config
	defaultEnabled            = false
	defaultBroker             = "tcp://localhost:1883"
	defaultTopicPrefix        = "sysupdater"
	defaultKeepAlive          = "20s"
	defaultDisconnectTimeout  = "250ms"
	defaultUsername           = ""
	defaultPassword           = ""
	defaultConnectTimeout     = "30s"
	defaultAcknowledgeTimeout = "15s"
	defaultCACert             = ""
	defaultCert               = ""
	defaultKey                = ""
)

// ConnectionConfig represents the mqtt client connection config
type ConnectionConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Broker             string `mapstructure:"broker"`
	TopicPrefix        string `mapstructure:"topic_prefix"`
	KeepAlive          string `mapstructure:"keep_alive"`
	DisconnectTimeout  string `mapstructure:"disconnect_timeout"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	ConnectTimeout     string `mapstructure:"connect_timeout"`
	AcknowledgeTimeout string `mapstructure:"acknowledge_timeout"`
	CACert             string `mapstructure:"ca_cert"`
	Cert               string `mapstructure:"cert"`
	Key                string `mapstructure:"key"`
}

// NewDefaultConfig returns a default mqtt client connection config instance
func NewDefaultConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Enabled:            defaultEnabled,
		Broker:             defaultBroker,
		TopicPrefix:        defaultTopicPrefix,
		KeepAlive:          defaultKeepAlive,
		DisconnectTimeout:  defaultDisconnectTimeout,
		Username:           defaultUsername,
		Password:           defaultPassword,
		ConnectTimeout:     defaultConnectTimeout,
		AcknowledgeTimeout: defaultAcknowledgeTimeout,
		CACert:             defaultCACert,
		Cert:               defaultCert,
		Key:                defaultKey,
	}
}
