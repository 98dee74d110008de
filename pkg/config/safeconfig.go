// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at SentinelOps (https://www.sentinelops.io/).
// Copyright 2024-present SentinelOps, Inc.

package config

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config is the surface the rest of the codebase consumes. It hides the
// concrete viper instance so tests can substitute a fresh one.
type Config interface {
	Get(key string) interface{}
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
	IsSet(key string) bool
	AllSettings() map[string]interface{}

	Set(key string, value interface{})
	SetDefault(key string, value interface{})
	BindEnvAndSetDefault(key string, val interface{})

	SetConfigFile(path string)
	SetConfigName(name string)
	AddConfigPath(path string)
	ReadInConfig() error
	ConfigFileUsed() string
	IsConfigFileNotFound(err error) bool
}

// safeConfig wraps viper with a lock. Viper itself is not safe for
// concurrent Set and Get.
type safeConfig struct {
	*viper.Viper
	sync.RWMutex
	envPrefix string
}

// NewConfig returns a Config with the given name, prefixing environment
// variable lookups with envPrefix and mapping key separators through
// envKeyReplacer.
func NewConfig(name string, envPrefix string, envKeyReplacer *strings.Replacer) Config {
	config := safeConfig{
		Viper:     viper.New(),
		envPrefix: envPrefix,
	}
	config.SetConfigName(name)
	config.SetTypeByDefaultValue(true)
	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(envKeyReplacer)
	return &config
}

func (c *safeConfig) Set(key string, value interface{}) {
	c.Lock()
	defer c.Unlock()
	c.Viper.Set(key, value)
}

func (c *safeConfig) SetDefault(key string, value interface{}) {
	c.Lock()
	defer c.Unlock()
	c.Viper.SetDefault(key, value)
}

// BindEnvAndSetDefault binds one environment variable and sets a default
// for the given key
func (c *safeConfig) BindEnvAndSetDefault(key string, val interface{}) {
	c.Lock()
	defer c.Unlock()
	c.Viper.SetDefault(key, val)
	c.Viper.BindEnv(key) //nolint:errcheck
}

func (c *safeConfig) Get(key string) interface{} {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.Get(key)
}

func (c *safeConfig) GetString(key string) string {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetString(key)
}

func (c *safeConfig) GetBool(key string) bool {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetBool(key)
}

func (c *safeConfig) GetInt(key string) int {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetInt(key)
}

func (c *safeConfig) GetDuration(key string) time.Duration {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetDuration(key)
}

func (c *safeConfig) GetStringSlice(key string) []string {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.GetStringSlice(key)
}

func (c *safeConfig) IsSet(key string) bool {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.IsSet(key)
}

func (c *safeConfig) AllSettings() map[string]interface{} {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.AllSettings()
}

func (c *safeConfig) SetConfigFile(path string) {
	c.Lock()
	defer c.Unlock()
	c.Viper.SetConfigFile(path)
}

func (c *safeConfig) SetConfigName(name string) {
	c.Lock()
	defer c.Unlock()
	c.Viper.SetConfigName(name)
}

func (c *safeConfig) AddConfigPath(path string) {
	c.Lock()
	defer c.Unlock()
	c.Viper.AddConfigPath(path)
}

func (c *safeConfig) ReadInConfig() error {
	c.Lock()
	defer c.Unlock()
	return c.Viper.ReadInConfig()
}

func (c *safeConfig) ConfigFileUsed() string {
	c.RLock()
	defer c.RUnlock()
	return c.Viper.ConfigFileUsed()
}

func (c *safeConfig) IsConfigFileNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}
