package formatter

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_DrawsMessageAndClears(t *testing.T) {
	var out lockedBuffer
	s := NewSpinner(&out, "Generating TP…")
	s.Start()

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Generating TP…")
	}, 2*time.Second, 10*time.Millisecond)

	s.SetMessage("Generating ATP…")
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Generating ATP…")
	}, 2*time.Second, 10*time.Millisecond)

	s.Stop()
	assert.True(t, strings.HasSuffix(out.String(), "\r\033[K"))
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	var out lockedBuffer
	s := NewSpinner(&out, "idle")
	s.Stop()
	s.Stop()
	assert.Empty(t, out.String())
}
