package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHumanDate(t *testing.T) {
	past := time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Sep 30, 2022", HumanDate(past))
	assert.Equal(t, "Today", HumanDate(time.Now()))
	assert.Equal(t, "Yesterday", HumanDate(time.Now().AddDate(0, 0, -1)))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "--", HumanTimestamp(time.Time{}))
	assert.Equal(t, "Just now", HumanTimestamp(now.Add(-10*time.Second)))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute-time.Second)))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour-time.Second)))
	assert.Equal(t, "Sep 30, 2022", HumanTimestamp(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC)))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "3f2a9c1e", stripANSI(TruncID("3f2a9c1e-0000-4000-8000-000000000000")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "Formatif", OrDash("Formatif"))
	assert.Equal(t, "--", stripANSI(OrDash("   ")))
}

func TestRenderBox(t *testing.T) {
	out := stripANSI(RenderBox("ringkasan", "isi"))
	assert.Contains(t, out, "RINGKASAN")
	assert.Contains(t, out, "isi")
	assert.Contains(t, out, "╭")
}
