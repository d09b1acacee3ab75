package config

const (
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 6000
	DefaultConnectPort = 6000
	DefaultQuitToken   = ":quit"

	// DefaultMaxDatagramSize is the receive buffer size and outgoing frame limit.
	DefaultMaxDatagramSize = 1024

	// MaxUDPPayload is the largest IPv4 UDP payload.
	MaxUDPPayload = 65507

	// minDatagramSize fits a message frame carrying one byte of text.
	minDatagramSize = 32 + 1 + 32 + 1 + 24 + 1 + 16 + 1
)

// DefaultChatConfig returns the settings used when nothing is configured:
// bind 127.0.0.1:6000 and announce to the same address, so two local
// instances find each other (the second falls back to an ephemeral port).
func DefaultChatConfig() *ChatConfig {
	return &ChatConfig{
		Host:            DefaultHost,
		Port:            DefaultPort,
		ConnectHost:     "",
		ConnectPort:     DefaultConnectPort,
		QuitToken:       DefaultQuitToken,
		MaxDatagramSize: DefaultMaxDatagramSize,
		LogLevel:        "",
	}
}
