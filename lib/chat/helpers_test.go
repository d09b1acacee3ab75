package chat

import (
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udpchat/udpchat/lib/crypto"
)

const waitTimeout = 3 * time.Second

// lineFeed is a LineReader fed by the test. Closing it yields io.EOF.
type lineFeed struct {
	lines chan string
	once  sync.Once
}

func newLineFeed() *lineFeed {
	return &lineFeed{lines: make(chan string, 16)}
}

func (f *lineFeed) ReadLine() (string, error) {
	line, ok := <-f.lines
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

func (f *lineFeed) send(line string) {
	f.lines <- line
}

func (f *lineFeed) close() {
	f.once.Do(func() { close(f.lines) })
}

type recorder struct {
	mu    sync.Mutex
	chats []string
	infos []string
	warns []string
}

func (r *recorder) Chat(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats = append(r.chats, FormatChat(text))
}

func (r *recorder) Info(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, text)
}

func (r *recorder) Warn(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, text)
}

func (r *recorder) Chats() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.chats...)
}

func (r *recorder) Infos() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.infos...)
}

func (r *recorder) Warns() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warns...)
}

func listenLoopback(t *testing.T) net.PacketConn {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func mustKeyPair(t *testing.T) crypto.KeyPair {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	return kp
}

type runResult struct {
	term Termination
	err  error
}
