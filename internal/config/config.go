package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds everything the console needs to reach the room server
// and identify its operator.
type Config struct {
	Server   *ServerConfig   `json:"server"`
	Identity *IdentityConfig `json:"identity"`
	Room     *RoomConfig     `json:"room"`
	Archive  *ArchiveConfig  `json:"archive"`
}

// ServerConfig covers the realtime channel and the REST API.
type ServerConfig struct {
	URL              string        `json:"url"`
	APIBaseURL       string        `json:"api_base_url"`
	Namespace        string        `json:"namespace"`
	Token            string        `json:"token"`
	HandshakeTimeout time.Duration `json:"handshake_timeout"`
	WriteTimeout     time.Duration `json:"write_timeout"`
	ReconnectMin     time.Duration `json:"reconnect_min"`
	ReconnectMax     time.Duration `json:"reconnect_max"`
}

// IdentityConfig is who this console joins rooms as.
type IdentityConfig struct {
	PlatformID string `json:"platform_id"`
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
}

// RoomConfig covers in-room behavior.
type RoomConfig struct {
	HandRaiseTimeout time.Duration `json:"hand_raise_timeout"`
}

// ArchiveConfig covers the local transcript store.
type ArchiveConfig struct {
	Path    string `json:"path"`
	Enabled bool   `json:"enabled"`
}

// DefaultConfig returns working defaults for a local server.
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerConfig{
			URL:              "ws://localhost:5000",
			APIBaseURL:       "http://localhost:5000",
			Namespace:        "/video-calling",
			HandshakeTimeout: 10 * time.Second,
			WriteTimeout:     5 * time.Second,
			ReconnectMin:     500 * time.Millisecond,
			ReconnectMax:     15 * time.Second,
		},
		Identity: &IdentityConfig{
			PlatformID: "miskills",
			Role:       "host",
		},
		Room: &RoomConfig{
			HandRaiseTimeout: 30 * time.Second,
		},
		Archive: &ArchiveConfig{
			Path:    "./admin.db",
			Enabled: true,
		},
	}
}

// Validate rejects configurations that cannot produce a working
// session.
func (c *Config) Validate() error {
	if c.Server == nil {
		return fmt.Errorf("server configuration is required")
	}
	if c.Server.URL == "" {
		return fmt.Errorf("server URL cannot be empty")
	}
	if c.Server.Namespace == "" {
		return fmt.Errorf("server namespace cannot be empty")
	}
	if c.Server.HandshakeTimeout <= 0 {
		return fmt.Errorf("handshake timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.Server.ReconnectMin <= 0 {
		return fmt.Errorf("reconnect minimum must be positive")
	}
	if c.Server.ReconnectMax < c.Server.ReconnectMin {
		return fmt.Errorf("reconnect maximum must be at least the minimum")
	}

	if c.Identity == nil {
		return fmt.Errorf("identity configuration is required")
	}
	if c.Identity.PlatformID == "" {
		return fmt.Errorf("platform ID cannot be empty")
	}
	if c.Identity.UserID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if c.Identity.Username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if c.Identity.Role != "host" && c.Identity.Role != "participant" {
		return fmt.Errorf("role must be host or participant")
	}

	if c.Room == nil {
		return fmt.Errorf("room configuration is required")
	}
	if c.Room.HandRaiseTimeout <= 0 {
		return fmt.Errorf("hand raise timeout must be positive")
	}

	if c.Archive == nil {
		return fmt.Errorf("archive configuration is required")
	}
	if c.Archive.Enabled && c.Archive.Path == "" {
		return fmt.Errorf("archive path cannot be empty when archiving is enabled")
	}

	return nil
}

// LoadFromEnv layers environment variables over the defaults.
func LoadFromEnv() *Config {
	config := DefaultConfig()

	if url := os.Getenv("ADMIN_SERVER_URL"); url != "" {
		config.Server.URL = url
	}
	if api := os.Getenv("ADMIN_API_BASE_URL"); api != "" {
		config.Server.APIBaseURL = api
	}
	if ns := os.Getenv("ADMIN_SERVER_NAMESPACE"); ns != "" {
		config.Server.Namespace = ns
	}
	if token := os.Getenv("ADMIN_SERVER_TOKEN"); token != "" {
		config.Server.Token = token
	}
	if v := os.Getenv("ADMIN_HANDSHAKE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Server.HandshakeTimeout = d
		}
	}
	if v := os.Getenv("ADMIN_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Server.WriteTimeout = d
		}
	}
	if v := os.Getenv("ADMIN_RECONNECT_MIN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Server.ReconnectMin = d
		}
	}
	if v := os.Getenv("ADMIN_RECONNECT_MAX"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Server.ReconnectMax = d
		}
	}

	if platform := os.Getenv("ADMIN_PLATFORM_ID"); platform != "" {
		config.Identity.PlatformID = platform
	}
	if userID := os.Getenv("ADMIN_USER_ID"); userID != "" {
		config.Identity.UserID = userID
	}
	if username := os.Getenv("ADMIN_USERNAME"); username != "" {
		config.Identity.Username = username
	}
	if role := os.Getenv("ADMIN_ROLE"); role != "" {
		config.Identity.Role = role
	}

	if v := os.Getenv("ADMIN_HAND_RAISE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Room.HandRaiseTimeout = d
		}
	}

	if path := os.Getenv("ADMIN_ARCHIVE_PATH"); path != "" {
		config.Archive.Path = path
	}
	if v := os.Getenv("ADMIN_ARCHIVE_ENABLED"); v != "" {
		config.Archive.Enabled = v == "true" || v == "1"
	}

	return config
}

// ConfigFile mirrors Config for JSON parsing, with durations as
// strings.
type ConfigFile struct {
	Server   *ServerConfigFile  `json:"server"`
	Identity *IdentityConfig    `json:"identity"`
	Room     *RoomConfigFile    `json:"room"`
	Archive  *ArchiveConfigFile `json:"archive"`
}

type ServerConfigFile struct {
	URL              string `json:"url"`
	APIBaseURL       string `json:"api_base_url"`
	Namespace        string `json:"namespace"`
	Token            string `json:"token"`
	HandshakeTimeout string `json:"handshake_timeout"`
	WriteTimeout     string `json:"write_timeout"`
	ReconnectMin     string `json:"reconnect_min"`
	ReconnectMax     string `json:"reconnect_max"`
}

type RoomConfigFile struct {
	HandRaiseTimeout string `json:"hand_raise_timeout"`
}

type ArchiveConfigFile struct {
	Path    string `json:"path"`
	Enabled *bool  `json:"enabled"`
}

// LoadFromFile layers a JSON config file over the defaults and
// validates the result.
func LoadFromFile(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	var file ConfigFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filepath, err)
	}

	config := DefaultConfig()

	if file.Server != nil {
		if file.Server.URL != "" {
			config.Server.URL = file.Server.URL
		}
		if file.Server.APIBaseURL != "" {
			config.Server.APIBaseURL = file.Server.APIBaseURL
		}
		if file.Server.Namespace != "" {
			config.Server.Namespace = file.Server.Namespace
		}
		if file.Server.Token != "" {
			config.Server.Token = file.Server.Token
		}
		if file.Server.HandshakeTimeout != "" {
			if d, err := time.ParseDuration(file.Server.HandshakeTimeout); err == nil {
				config.Server.HandshakeTimeout = d
			}
		}
		if file.Server.WriteTimeout != "" {
			if d, err := time.ParseDuration(file.Server.WriteTimeout); err == nil {
				config.Server.WriteTimeout = d
			}
		}
		if file.Server.ReconnectMin != "" {
			if d, err := time.ParseDuration(file.Server.ReconnectMin); err == nil {
				config.Server.ReconnectMin = d
			}
		}
		if file.Server.ReconnectMax != "" {
			if d, err := time.ParseDuration(file.Server.ReconnectMax); err == nil {
				config.Server.ReconnectMax = d
			}
		}
	}

	if file.Identity != nil {
		if file.Identity.PlatformID != "" {
			config.Identity.PlatformID = file.Identity.PlatformID
		}
		if file.Identity.UserID != "" {
			config.Identity.UserID = file.Identity.UserID
		}
		if file.Identity.Username != "" {
			config.Identity.Username = file.Identity.Username
		}
		if file.Identity.Role != "" {
			config.Identity.Role = file.Identity.Role
		}
	}

	if file.Room != nil && file.Room.HandRaiseTimeout != "" {
		if d, err := time.ParseDuration(file.Room.HandRaiseTimeout); err == nil {
			config.Room.HandRaiseTimeout = d
		}
	}

	if file.Archive != nil {
		if file.Archive.Path != "" {
			config.Archive.Path = file.Archive.Path
		}
		if file.Archive.Enabled != nil {
			config.Archive.Enabled = *file.Archive.Enabled
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", filepath, err)
	}

	return config, nil
}

// LoadWithPrecedence resolves configuration as file > environment >
// defaults. File errors fall back to the environment layer.
func LoadWithPrecedence(filepath string) *Config {
	config := LoadFromEnv()

	if filepath != "" {
		if fileConfig, err := LoadFromFile(filepath); err == nil {
			config = fileConfig
		}
	}

	return config
}
