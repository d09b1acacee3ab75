package chat

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenFallsBackWhenAddressInUse(t *testing.T) {
	first := listenLoopback(t)

	second, err := Listen(first.LocalAddr().String())
	require.NoError(t, err)
	defer second.Close()

	firstAddr := first.LocalAddr().(*net.UDPAddr)
	secondAddr := second.LocalAddr().(*net.UDPAddr)
	assert.True(t, secondAddr.IP.Equal(firstAddr.IP))
	assert.NotEqual(t, firstAddr.Port, secondAddr.Port)
}

func TestListenRejectsBadAddress(t *testing.T) {
	_, err := Listen("not an address")
	require.Error(t, err)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "bind", terr.Op)
}

func TestSameEndpoint(t *testing.T) {
	udp := func(ip string, port int) *net.UDPAddr {
		return &net.UDPAddr{IP: net.ParseIP(ip), Port: port}
	}

	tests := []struct {
		name   string
		local  net.Addr
		remote net.Addr
		want   bool
	}{
		{"identical", udp("127.0.0.1", 6000), udp("127.0.0.1", 6000), true},
		{"different port", udp("127.0.0.1", 6000), udp("127.0.0.1", 6001), false},
		{"different host", udp("127.0.0.1", 6000), udp("10.0.0.1", 6000), false},
		{"wildcard bind sees loopback", udp("0.0.0.0", 6000), udp("127.0.0.1", 6000), true},
		{"nil ip bind sees loopback", &net.UDPAddr{Port: 6000}, udp("127.0.0.1", 6000), true},
		{"wildcard bind, remote host", udp("0.0.0.0", 6000), udp("10.0.0.1", 6000), false},
		{"ipv6 loopback", udp("::1", 6000), udp("::1", 6000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sameEndpoint(tt.local, tt.remote))
		})
	}
}

func TestTransportErrorUnwraps(t *testing.T) {
	err := &TransportError{Op: "send", Addr: "127.0.0.1:6000", Err: net.ErrClosed}
	assert.ErrorIs(t, err, net.ErrClosed)
	assert.Equal(t, "udp send 127.0.0.1:6000: "+net.ErrClosed.Error(), err.Error())

	bare := &TransportError{Op: "receive", Err: net.ErrClosed}
	assert.Equal(t, "udp receive: "+net.ErrClosed.Error(), bare.Error())
}
