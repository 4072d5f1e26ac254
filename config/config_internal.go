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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sysupdater/sysupdater/logger"
	"github.com/sysupdater/sysupdater/mqtt"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// default task config
	systemEnabledDefault       = true
	systemAutoRemoveDefault    = true
	systemRefreshDefault       = true
	flatpakEnabledDefault      = true
	flatpakRemoveUnusedDefault = true
	firmwareEnabledDefault     = false
	networkCheckURLDefault     = "https://fedoraproject.org"
	networkTimeoutSecsDefault  = 10
	gracePeriodDefault         = "5s"
	gracePeriodDefaultDuration = 5 * time.Second
	rebootDelayDefault         = "0s"

	// default log config
	logFileDefault       = "/var/log/sysupdater.log"
	logLevelDefault      = "INFO"
	logFileSizeDefault   = 2
	logFileCountDefault  = 5
	logFileMaxAgeDefault = 28

	envPrefix = "SYSUPDATER"

	systemConfigFile = "/etc/sysupdater.toml"
	userConfigFile   = "sysupdater/config.toml"
)

// searchPaths returns the configuration files looked up when no file is given explicitly, in order of precedence.
var searchPaths = func() []string {
	paths := []string{systemConfigFile}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, userConfigFile))
	}
	return paths
}

func newDefaultConfig() *Config {
	return &Config{
		System: &SystemConfig{
			Enabled:    systemEnabledDefault,
			AutoRemove: systemAutoRemoveDefault,
			Refresh:    systemRefreshDefault,
		},
		Flatpak: &FlatpakConfig{
			Enabled:      flatpakEnabledDefault,
			RemoveUnused: flatpakRemoveUnusedDefault,
		},
		Firmware: &FirmwareConfig{
			Enabled: firmwareEnabledDefault,
		},
		Network: &NetworkConfig{
			CheckURL:    networkCheckURLDefault,
			TimeoutSecs: networkTimeoutSecsDefault,
		},
		Execution: &ExecutionConfig{
			GracePeriod: gracePeriodDefault,
			RebootDelay: rebootDelayDefault,
		},
		Log: &logger.LogConfig{
			LogFile:       logFileDefault,
			LogLevel:      logLevelDefault,
			LogFileSize:   logFileSizeDefault,
			LogFileCount:  logFileCountDefault,
			LogFileMaxAge: logFileMaxAgeDefault,
		},
		MQTT: mqtt.NewDefaultConfig(),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := newDefaultConfig()
	v.SetDefault("system.enabled", defaults.System.Enabled)
	v.SetDefault("system.auto_remove", defaults.System.AutoRemove)
	v.SetDefault("system.refresh", defaults.System.Refresh)
	v.SetDefault("flatpak.enabled", defaults.Flatpak.Enabled)
	v.SetDefault("flatpak.remove_unused", defaults.Flatpak.RemoveUnused)
	v.SetDefault("firmware.enabled", defaults.Firmware.Enabled)
	v.SetDefault("network.check_url", defaults.Network.CheckURL)
	v.SetDefault("network.timeout_secs", defaults.Network.TimeoutSecs)
	v.SetDefault("execution.grace_period", defaults.Execution.GracePeriod)
	v.SetDefault("execution.reboot_delay", defaults.Execution.RebootDelay)
	v.SetDefault("logging.file", defaults.Log.LogFile)
	v.SetDefault("logging.level", defaults.Log.LogLevel)
	v.SetDefault("logging.file_size", defaults.Log.LogFileSize)
	v.SetDefault("logging.file_count", defaults.Log.LogFileCount)
	v.SetDefault("logging.file_max_age", defaults.Log.LogFileMaxAge)
	v.SetDefault("mqtt.enabled", defaults.MQTT.Enabled)
	v.SetDefault("mqtt.broker", defaults.MQTT.Broker)
	v.SetDefault("mqtt.topic_prefix", defaults.MQTT.TopicPrefix)
	v.SetDefault("mqtt.keep_alive", defaults.MQTT.KeepAlive)
	v.SetDefault("mqtt.disconnect_timeout", defaults.MQTT.DisconnectTimeout)
	v.SetDefault("mqtt.username", defaults.MQTT.Username)
	v.SetDefault("mqtt.password", defaults.MQTT.Password)
	v.SetDefault("mqtt.connect_timeout", defaults.MQTT.ConnectTimeout)
	v.SetDefault("mqtt.acknowledge_timeout", defaults.MQTT.AcknowledgeTimeout)
	v.SetDefault("mqtt.ca_cert", defaults.MQTT.CACert)
	v.SetDefault("mqtt.cert", defaults.MQTT.Cert)
	v.SetDefault("mqtt.key", defaults.MQTT.Key)
	return v
}

// LoadConfig loads a new configuration instance from the given file, or from the first readable file of the search paths if none is given.
// Values can be overridden by SYSUPDATER_ prefixed environment variables, e.g. SYSUPDATER_NETWORK_TIMEOUT_SECS.
func LoadConfig(configFilePath string) (*Config, error) {
	v := newViper()
	source := ""
	if configFilePath != "" {
		if err := readConfigFile(v, configFilePath); err != nil {
			return nil, err
		}
		source = configFilePath
	} else {
		for _, path := range searchPaths() {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := readConfigFile(v, path); err != nil {
				logger.WarnErr(err, "skipping configuration file '%s'", path)
				v = newViper()
				continue
			}
			source = path
			break
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "cannot decode configuration")
	}
	cfg.Source = source
	return cfg, nil
}

func readConfigFile(v *viper.Viper, filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return errors.Wrapf(err, "cannot read configuration file '%s'", filePath)
	}
	if info.IsDir() {
		return errors.Errorf("provided configuration path '%s' is a directory", filePath)
	}
	v.SetConfigFile(filePath)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "cannot parse configuration file '%s'", filePath)
	}
	return nil
}
