package config

import (
	"fmt"
	"os"
	"time"

	"github.com/cuemby/quorumstate/pkg/types"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// EndpointConfig is the YAML shape of one advertised listener.
type EndpointConfig struct {
	Host string `yaml:"host"`
	Port int32  `yaml:"port"`
}

// VersionRangeConfig is the YAML shape of a supported protocol version range.
type VersionRangeConfig struct {
	Min int16 `yaml:"min"`
	Max int16 `yaml:"max"`
}

// Config is the on-disk configuration for one replica.
type Config struct {
	LocalID                *int32                    `yaml:"local_id,omitempty"`
	LocalDirectoryID       string                    `yaml:"local_directory_id"`
	DataDir                string                    `yaml:"data_dir"`
	ElectionTimeoutMs      int64                     `yaml:"election_timeout_ms"`
	Listeners              map[string]EndpointConfig `yaml:"listeners"`
	SupportedVersionRange  VersionRangeConfig        `yaml:"supported_version_range"`
}

// Load reads and parses a replica's configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("config: data_dir is required")
	}
	return &cfg, nil
}

// ElectionTimeout returns the configured base election timeout.
func (c *Config) ElectionTimeout() time.Duration {
	return time.Duration(c.ElectionTimeoutMs) * time.Millisecond
}

// ReplicaIdentity converts the parsed configuration into the identity
// type the quorum state manager consumes.
func (c *Config) ReplicaIdentity() (types.ReplicaIdentity, error) {
	directoryID, err := uuid.Parse(c.LocalDirectoryID)
	if err != nil {
		return types.ReplicaIdentity{}, fmt.Errorf("config: invalid local_directory_id: %w", err)
	}

	listeners := make(types.Endpoints, len(c.Listeners))
	for name, ep := range c.Listeners {
		listeners[name] = types.Endpoint{Host: ep.Host, Port: ep.Port}
	}

	return types.ReplicaIdentity{
		ID:          c.LocalID,
		DirectoryID: directoryID,
		Listeners:   listeners,
		LocalSupportedVersionRange: types.VersionRange{
			Min: c.SupportedVersionRange.Min,
			Max: c.SupportedVersionRange.Max,
		},
	}, nil
}
