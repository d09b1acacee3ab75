package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// resetViper isolates each test from the user's real config and from other
// tests.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	CfgFile = ""
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() {
		viper.Reset()
		CfgFile = ""
	})
}

func TestInitConfigDefaults(t *testing.T) {
	resetViper(t)
	require.NoError(t, InitConfig())

	cfg, err := NewChatConfigFromViper()
	require.NoError(t, err)
	assert.Equal(t, DefaultChatConfig(), cfg)
	assert.Equal(t, "127.0.0.1:6000", cfg.BindAddress())
	assert.Equal(t, "127.0.0.1:6000", cfg.RendezvousAddress())
}

func TestInitConfigReadsFile(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "chat.yaml")
	content := []byte("host: 0.0.0.0\nport: 6001\nconnect_host: 10.0.0.2\nconnect_port: 6002\nquit_token: /bye\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	CfgFile = path

	require.NoError(t, InitConfig())
	cfg, err := NewChatConfigFromViper()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:6001", cfg.BindAddress())
	assert.Equal(t, "10.0.0.2:6002", cfg.RendezvousAddress())
	assert.Equal(t, "/bye", cfg.QuitToken)
	assert.Equal(t, DefaultMaxDatagramSize, cfg.MaxDatagramSize, "unset keys keep defaults")
}

func TestInitConfigReadsDefaultLocation(t *testing.T) {
	resetViper(t)

	dir := BuildDirPath()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: 6100\n"), 0o600))

	require.NoError(t, InitConfig())
	assert.Equal(t, 6100, viper.GetInt("port"))
}

func TestInitConfigMissingExplicitFile(t *testing.T) {
	resetViper(t)
	CfgFile = filepath.Join(t.TempDir(), "nope.yaml")

	assert.Error(t, InitConfig())
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	resetViper(t)
	t.Setenv("UDPCHAT_CONNECT_PORT", "6500")

	require.NoError(t, InitConfig())
	cfg, err := NewChatConfigFromViper()
	require.NoError(t, err)
	assert.Equal(t, 6500, cfg.ConnectPort)
}

func TestNewChatConfigFromViperValidates(t *testing.T) {
	resetViper(t)
	require.NoError(t, InitConfig())
	viper.Set("quit_token", "   ")

	_, err := NewChatConfigFromViper()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ChatConfig)
		wantErr bool
	}{
		{"defaults", func(c *ChatConfig) {}, false},
		{"ephemeral bind port", func(c *ChatConfig) { c.Port = 0 }, false},
		{"empty host", func(c *ChatConfig) { c.Host = "" }, true},
		{"negative port", func(c *ChatConfig) { c.Port = -1 }, true},
		{"port too large", func(c *ChatConfig) { c.Port = 70000 }, true},
		{"connect port zero", func(c *ChatConfig) { c.ConnectPort = 0 }, true},
		{"blank quit token", func(c *ChatConfig) { c.QuitToken = " " }, true},
		{"datagram too small", func(c *ChatConfig) { c.MaxDatagramSize = 100 }, true},
		{"datagram too large", func(c *ChatConfig) { c.MaxDatagramSize = MaxUDPPayload + 1 }, true},
		{"datagram max", func(c *ChatConfig) { c.MaxDatagramSize = MaxUDPPayload }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultChatConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRendezvousAddressIPv6(t *testing.T) {
	c := DefaultChatConfig()
	c.Host = "::1"
	assert.Equal(t, "[::1]:6000", c.BindAddress())
	assert.Equal(t, "[::1]:6000", c.RendezvousAddress())
}

func TestYAMLRendering(t *testing.T) {
	c := DefaultChatConfig()
	out, err := c.YAML()
	require.NoError(t, err)

	var back ChatConfig
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, *c, back)
	assert.Contains(t, string(out), "quit_token:")
	assert.NotContains(t, string(out), "connect_host", "empty connect_host is omitted")
}
