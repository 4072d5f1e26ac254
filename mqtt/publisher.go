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

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sysupdater/sysupdater/api/types"
	"github.com/sysupdater/sysupdater/api/util"
	"github.com/sysupdater/sysupdater/logger"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	suffixEvents = "/events"
	suffixResult = "/result"

	clientIDPrefix = "sysupdater-"
)

// EventPublisher publishes the progress events and the final result of a run to an MQTT broker.
// Publishing is best-effort: a broker that is unreachable or slow never affects the run.
type EventPublisher struct {
	mqttConfig *ConnectionConfig
	topicRoot  string
	pahoClient pahomqtt.Client
	connected  atomic.Bool
}

// NewEventPublisher creates a publisher for the given host, using the provided configuration options.
func NewEventPublisher(config *ConnectionConfig, host string) (*EventPublisher, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, err
	}
	return &EventPublisher{
		mqttConfig: config,
		topicRoot:  topicRoot(config.TopicPrefix, host),
		pahoClient: client,
	}, nil
}

func (publisher *EventPublisher) topic(topicSuffix string) string {
	return publisher.topicRoot + topicSuffix
}

// Connect connects the publisher to the MQTT broker.
func (publisher *EventPublisher) Connect() error {
	connectTimeout := util.ParseDuration("mqtt.connect_timeout", publisher.mqttConfig.ConnectTimeout, 30*time.Second, 30*time.Second)
	token := publisher.pahoClient.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("connect to '%s' timed out after %v", publisher.mqttConfig.Broker, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return errors.Wrapf(err, "cannot connect to '%s'", publisher.mqttConfig.Broker)
	}
	publisher.connected.Store(true)
	logger.Info("connected to MQTT broker '%s', publishing events to '%s'", publisher.mqttConfig.Broker, publisher.topic(suffixEvents))
	return nil
}

// Disconnect disconnects the publisher from the MQTT broker, waiting for the pending messages up to the disconnect timeout.
func (publisher *EventPublisher) Disconnect() {
	if !publisher.connected.CompareAndSwap(true, false) {
		return
	}
	disconnectTimeout := util.ParseDuration("mqtt.disconnect_timeout", publisher.mqttConfig.DisconnectTimeout, 250*time.Millisecond, 250*time.Millisecond)
	publisher.pahoClient.Disconnect(uint(disconnectTimeout.Milliseconds()))
	logger.Debug("disconnected from MQTT broker '%s'", publisher.mqttConfig.Broker)
}

// HandleEvent publishes the event. The final result of a run is additionally published as retained message.
func (publisher *EventPublisher) HandleEvent(event *types.Event) {
	if !publisher.connected.Load() {
		return
	}
	payload, err := types.ToEnvelope(event.RunID, event)
	if err != nil {
		logger.ErrorErr(err, "cannot serialize %s event", event.Type)
		return
	}
	publisher.publish(publisher.topic(suffixEvents), false, payload)

	if event.Type != types.EventRunFinished {
		return
	}
	var result interface{}
	switch {
	case event.Result != nil:
		result = event.Result
	case event.Refresh != nil:
		result = event.Refresh
	default:
		return
	}
	resultPayload, err := types.ToEnvelope(event.RunID, result)
	if err != nil {
		logger.ErrorErr(err, "cannot serialize the result of run '%s'", event.RunID)
		return
	}
	acknowledgeTimeout := util.ParseDuration("mqtt.acknowledge_timeout", publisher.mqttConfig.AcknowledgeTimeout, 15*time.Second, 15*time.Second)
	token := publisher.publish(publisher.topic(suffixResult), true, resultPayload)
	if !token.WaitTimeout(acknowledgeTimeout) {
		logger.Warn("result of run '%s' not acknowledged in %v", event.RunID, acknowledgeTimeout)
	} else if err := token.Error(); err != nil {
		logger.WarnErr(err, "cannot publish the result of run '%s'", event.RunID)
	}
}

func (publisher *EventPublisher) publish(topic string, retained bool, message []byte) pahomqtt.Token {
	if logger.IsTraceEnabled() {
		logger.Trace("publishing to topic '%s': %s", topic, message)
	}
	return publisher.pahoClient.Publish(topic, 1, retained, message)
}

// topicRoot returns the topic all messages of the host are published under. MQTT wildcards are not allowed in the host name.
func topicRoot(prefix, host string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	host = strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(host)
	if host == "" {
		host = "unknown"
	}
	return prefix + "/" + host
}

func newClient(config *ConnectionConfig) (pahomqtt.Client, error) {
	clientOptions := pahomqtt.NewClientOptions().
		SetClientID(clientIDPrefix + uuid.New().String()).
		AddBroker(config.Broker).
		SetKeepAlive(util.ParseDuration("mqtt.keep_alive", config.KeepAlive, 20*time.Second, 20*time.Second)).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetProtocolVersion(4).
		SetConnectTimeout(util.ParseDuration("mqtt.connect_timeout", config.ConnectTimeout, 30*time.Second, 30*time.Second)).
		SetConnectionLostHandler(func(client pahomqtt.Client, err error) {
			logger.WarnErr(err, "connection to MQTT broker '%s' lost", config.Broker)
		}).
		SetUsername(config.Username).
		SetPassword(config.Password)

	if config.CACert != "" {
		tlsConfig, err := NewTLSConfig(config)
		if err != nil {
			return nil, err
		}
		clientOptions.SetTLSConfig(tlsConfig)
	}
	return pahomqtt.NewClient(clientOptions), nil
}
