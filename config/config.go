/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config describes how an application wires a query set: which
// backend to use and how to reach it. Files are YAML; a handful of
// QS_-prefixed environment variables override the file for deploy-time
// tweaks.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in Config.Backend.
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendDynamo = "dynamo"
)

// Config selects and parameterizes one backend.
type Config struct {
	// Backend is one of memory, mongo, redis, dynamo.
	Backend string `yaml:"backend"`

	// IDField overrides the backend's default identifier field.
	IDField string `yaml:"id_field,omitempty"`

	// UpdateCreatesMissing controls whether updates write absent
	// identifiers. Defaults to true.
	UpdateCreatesMissing *bool `yaml:"update_creates_missing,omitempty"`

	Mongo  MongoConfig  `yaml:"mongo,omitempty"`
	Redis  RedisConfig  `yaml:"redis,omitempty"`
	Dynamo DynamoConfig `yaml:"dynamo,omitempty"`
}

// MongoConfig locates one collection.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// RedisConfig locates one hash.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Hash     string `yaml:"hash"`
	Compress bool   `yaml:"compress,omitempty"`
}

// DynamoConfig locates one table.
type DynamoConfig struct {
	Region    string `yaml:"region"`
	Table     string `yaml:"table"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// Default returns the zero-dependency configuration: an in-memory backend.
func Default() *Config {
	return &Config{Backend: BackendMemory}
}

// Load reads a YAML config file, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays QS_-prefixed environment variables onto the config.
func (c *Config) applyEnv() {
	setString(&c.Backend, "QS_BACKEND")
	setString(&c.IDField, "QS_ID_FIELD")
	setString(&c.Mongo.URI, "QS_MONGO_URI")
	setString(&c.Mongo.Database, "QS_MONGO_DATABASE")
	setString(&c.Mongo.Collection, "QS_MONGO_COLLECTION")
	setString(&c.Redis.Addr, "QS_REDIS_ADDR")
	setString(&c.Redis.Password, "QS_REDIS_PASSWORD")
	setString(&c.Redis.Hash, "QS_REDIS_HASH")
	setString(&c.Dynamo.Region, "QS_DYNAMO_REGION")
	setString(&c.Dynamo.Table, "QS_DYNAMO_TABLE")
	setString(&c.Dynamo.AccessKey, "QS_DYNAMO_ACCESS_KEY")
	setString(&c.Dynamo.SecretKey, "QS_DYNAMO_SECRET_KEY")

	if v, ok := os.LookupEnv("QS_REDIS_DB"); ok {
		if db, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = db
		}
	}
	if v, ok := os.LookupEnv("QS_REDIS_COMPRESS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Redis.Compress = b
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

// Validate checks that the selected backend has what it needs to connect.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" || c.Mongo.Collection == "" {
			return fmt.Errorf("mongo backend requires uri, database and collection")
		}
	case BackendRedis:
		if c.Redis.Addr == "" || c.Redis.Hash == "" {
			return fmt.Errorf("redis backend requires addr and hash")
		}
	case BackendDynamo:
		if c.Dynamo.Region == "" || c.Dynamo.Table == "" {
			return fmt.Errorf("dynamo backend requires region and table")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}
