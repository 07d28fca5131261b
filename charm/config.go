// ABOUTME: Connection settings for the Charm KV backend
// ABOUTME: Built from the storage section of the app config, with Charm defaults filled in

package charm

import (
	"strings"
	"time"

	"github.com/charmbracelet/charm/kv"
)

const (
	// DefaultCharmHost is the public Charm Cloud server.
	DefaultCharmHost = "cloud.charm.sh"

	// AppName names the Charm KV database.
	AppName = "fomo"
)

type Config struct {
	// Host is the charm server hostname
	Host string

	// AutoSync pushes to the server after every write
	AutoSync bool

	// StaleThreshold is how old local data may get before a read forces a sync
	StaleThreshold time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Host:           DefaultCharmHost,
		AutoSync:       true,
		StaleThreshold: kv.DefaultStaleThreshold,
	}
}

// NewConfig returns settings for host. An empty host means Charm Cloud.
func NewConfig(host string, autoSync bool) *Config {
	cfg := DefaultConfig()
	if h := strings.TrimSpace(host); h != "" {
		cfg.Host = h
	}
	cfg.AutoSync = autoSync
	return cfg
}
