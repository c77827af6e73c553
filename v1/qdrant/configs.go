package qdrant

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Protocol selects the wire protocol the client speaks.
type Protocol string

const (
	// ProtocolGRPC is the binary RPC protocol on the gRPC port.
	ProtocolGRPC Protocol = "grpc"
	// ProtocolREST is JSON over HTTP on the REST port.
	ProtocolREST Protocol = "rest"
)

// Default values for configuration.
const (
	DefaultHost     = "localhost"
	DefaultGRPCPort = 6334
	DefaultRESTPort = 6333
	DefaultTimeout  = 30 * time.Second
)

// Config holds connection and behavior settings for the Qdrant client.
//
// It can be filled from environment variables, YAML, or programmatically via
// the builder methods.
//
// Example (builder style):
//
//	cfg := qdrant.DefaultConfig().
//	    WithHost("qdrant.internal").
//	    WithAPIKey(os.Getenv("QDRANT_API_KEY")).
//	    WithProtocol(qdrant.ProtocolREST)
type Config struct {
	// Hostname of the Qdrant server, without scheme or port, e.g. "localhost".
	Host string `yaml:"host" envconfig:"QDRANT_HOST"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	GRPCPort int `yaml:"grpc_port" envconfig:"QDRANT_GRPC_PORT"`

	// REST port of the Qdrant server. Defaults to 6333.
	RESTPort int `yaml:"rest_port" envconfig:"QDRANT_REST_PORT"`

	// Protocol is "grpc" (default) or "rest".
	Protocol Protocol `yaml:"protocol" envconfig:"QDRANT_PROTOCOL"`

	// UseTLS forces TLS on or off. Nil enables it for every host that is
	// not a loopback address. Disabling it for a remote host is rejected.
	UseTLS *bool `yaml:"use_tls" envconfig:"QDRANT_USE_TLS"`

	// Optional authentication token for secured deployments.
	APIKey string `yaml:"api_key" envconfig:"QDRANT_API_KEY"`

	// Maximum duration of a single request. Zero disables the limit.
	Timeout time.Duration `yaml:"timeout" envconfig:"QDRANT_TIMEOUT"`

	// Whether to compare client and server versions when connecting (gRPC only).
	CheckCompatibility bool `yaml:"check_compatibility" envconfig:"QDRANT_CHECK_COMPATIBILITY"`

	// Number of gRPC connections; calls rotate through them. Zero means
	// the go-client default of 3.
	PoolSize uint `yaml:"pool_size" envconfig:"QDRANT_POOL_SIZE"`
}

// DefaultConfig provides sensible defaults for a local development server.
func DefaultConfig() *Config {
	return &Config{
		Host:     DefaultHost,
		GRPCPort: DefaultGRPCPort,
		RESTPort: DefaultRESTPort,
		Protocol: ProtocolGRPC,
		Timeout:  DefaultTimeout,
	}
}

// FromHost returns a default config pre-filled with a specific host.
func FromHost(host string) *Config {
	return DefaultConfig().WithHost(host)
}

// LoadConfigFromEnv starts from DefaultConfig and overrides every field whose
// QDRANT_* variable is set. Any files given are loaded with godotenv first;
// variables already present in the environment win over file entries.
func LoadConfigFromEnv(files ...string) (*Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, fmt.Errorf("[Qdrant] failed to load env files: %w", err)
		}
	}
	cfg := DefaultConfig()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to read environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadConfigFromYAML starts from DefaultConfig and overrides the keys present
// in the file at path.
//
// Example file:
//
//	host: qdrant.internal
//	protocol: rest
//	use_tls: true
//	timeout: 10s
func LoadConfigFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to parse config file %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the fields that cannot be repaired by defaults.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("[Qdrant] host cannot be empty")
	}
	if strings.Contains(c.Host, "://") {
		return fmt.Errorf("[Qdrant] host %q must not include a scheme; use UseTLS instead", c.Host)
	}
	switch c.Protocol {
	case ProtocolGRPC, ProtocolREST:
	default:
		return fmt.Errorf("[Qdrant] unknown protocol %q (want %q or %q)", c.Protocol, ProtocolGRPC, ProtocolREST)
	}
	if err := validPort("grpc_port", c.GRPCPort); err != nil {
		return err
	}
	if err := validPort("rest_port", c.RESTPort); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("[Qdrant] timeout cannot be negative")
	}
	return nil
}

func validPort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("[Qdrant] %s %d is out of range", name, port)
	}
	return nil
}

// Builder-style helpers

func (c *Config) WithHost(host string) *Config {
	c.Host = host
	return c
}

func (c *Config) WithGRPCPort(port int) *Config {
	c.GRPCPort = port
	return c
}

func (c *Config) WithRESTPort(port int) *Config {
	c.RESTPort = port
	return c
}

func (c *Config) WithProtocol(p Protocol) *Config {
	c.Protocol = p
	return c
}

func (c *Config) WithTLS(enabled bool) *Config {
	c.UseTLS = &enabled
	return c
}

func (c *Config) WithAPIKey(key string) *Config {
	c.APIKey = key
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}

func (c *Config) WithCompatibilityCheck(enabled bool) *Config {
	c.CheckCompatibility = enabled
	return c
}

func (c *Config) WithPoolSize(n uint) *Config {
	c.PoolSize = n
	return c
}
