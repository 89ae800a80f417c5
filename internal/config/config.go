// Package config builds the server's runtime Config in three layers:
// built-in defaults, then environment variables, then command-line flags,
// each overriding the last. Flags are parsed with flagx.FilterArgs so an
// unrelated flag passed through by a wrapper script doesn't abort startup.
package config

import (
	"flag"
	"os"
	"strconv"

	"github.com/Humans-Not-Required/agent-docs/internal/flagx"
)

// Config holds everything main needs to start the server.
type Config struct {
	DatabasePath       string
	Address            string
	Port               string
	StaticDir          string
	WorkspaceRateLimit int
	LockTTLSeconds     int
}

// Defaults returns the built-in baseline configuration.
func Defaults() *Config {
	return &Config{
		DatabasePath:       "agentdocs.db",
		Address:            "0.0.0.0",
		Port:               "8080",
		StaticDir:          "./static",
		WorkspaceRateLimit: 10,
		LockTTLSeconds:     60,
	}
}

// Load builds a Config from defaults, then environment variables, then the
// flags recognized within args (typically os.Args[1:]).
func Load(args []string) (*Config, error) {
	cfg := Defaults()
	cfg.applyEnv()
	if err := cfg.applyFlags(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("ADDRESS"); v != "" {
		c.Address = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v := os.Getenv("WORKSPACE_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.WorkspaceRateLimit = n
		}
	}
	if v := os.Getenv("LOCK_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LockTTLSeconds = n
		}
	}
}

var recognizedFlags = []string{
	"-db", "--db",
	"-addr", "--addr",
	"-port", "--port",
	"-static-dir", "--static-dir",
	"-workspace-rate-limit", "--workspace-rate-limit",
	"-lock-ttl-seconds", "--lock-ttl-seconds",
}

func (c *Config) applyFlags(args []string) error {
	fs := flag.NewFlagSet("agentdocsd", flag.ContinueOnError)
	db := fs.String("db", c.DatabasePath, "path to the SQLite database file")
	addr := fs.String("addr", c.Address, "address to bind")
	port := fs.String("port", c.Port, "port to listen on")
	staticDir := fs.String("static-dir", c.StaticDir, "directory of static assets to serve")
	rateLimit := fs.Int("workspace-rate-limit", c.WorkspaceRateLimit, "max workspace creations per IP per hour")
	lockTTL := fs.Int("lock-ttl-seconds", c.LockTTLSeconds, "default editing lease lifetime in seconds")

	filtered := flagx.FilterArgs(args, recognizedFlags)
	if err := fs.Parse(filtered); err != nil {
		return err
	}

	c.DatabasePath = *db
	c.Address = *addr
	c.Port = *port
	c.StaticDir = *staticDir
	c.WorkspaceRateLimit = *rateLimit
	c.LockTTLSeconds = *lockTTL
	return nil
}
