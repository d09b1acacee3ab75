package config

import (
	"net"
	"strconv"
	"strings"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// ChatConfig holds everything needed to start one chat session.
type ChatConfig struct {
	// Host is the local address to bind.
	Host string `mapstructure:"host" yaml:"host"`
	// Port is the local port to bind; if taken, an ephemeral port is used.
	Port int `mapstructure:"port" yaml:"port"`
	// ConnectHost is the rendezvous host. Empty means Host.
	ConnectHost string `mapstructure:"connect_host" yaml:"connect_host,omitempty"`
	// ConnectPort is the rendezvous port announces are sent to.
	ConnectPort int `mapstructure:"connect_port" yaml:"connect_port"`
	// QuitToken ends the session for both sides when sent.
	QuitToken string `mapstructure:"quit_token" yaml:"quit_token"`
	// MaxDatagramSize bounds both the receive buffer and outgoing frames.
	MaxDatagramSize int `mapstructure:"max_datagram_size" yaml:"max_datagram_size"`
	// LogLevel enables diagnostic logging to stderr (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" yaml:"log_level,omitempty"`
}

// BindAddress is the host:port the session listens on.
func (c *ChatConfig) BindAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// RendezvousAddress is where announces go until a peer is discovered.
func (c *ChatConfig) RendezvousAddress() string {
	host := c.ConnectHost
	if host == "" {
		host = c.Host
	}
	return net.JoinHostPort(host, strconv.Itoa(c.ConnectPort))
}

func (c *ChatConfig) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return oops.Wrapf(ErrInvalidConfig, "host must not be empty")
	}
	if c.Port < 0 || c.Port > 65535 {
		return oops.Wrapf(ErrInvalidConfig, "port %d out of range", c.Port)
	}
	if c.ConnectPort < 1 || c.ConnectPort > 65535 {
		return oops.Wrapf(ErrInvalidConfig, "connect_port %d out of range", c.ConnectPort)
	}
	if strings.TrimSpace(c.QuitToken) == "" {
		return oops.Wrapf(ErrInvalidConfig, "quit_token must not be blank")
	}
	if c.MaxDatagramSize < minDatagramSize || c.MaxDatagramSize > MaxUDPPayload {
		return oops.Wrapf(ErrInvalidConfig, "max_datagram_size %d not in [%d, %d]",
			c.MaxDatagramSize, minDatagramSize, MaxUDPPayload)
	}
	return nil
}

// YAML renders the effective configuration.
func (c *ChatConfig) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, oops.Wrapf(err, "failed to render config")
	}
	return out, nil
}
