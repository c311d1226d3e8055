package formatter

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner animates a status line on a writer while a stage is generated.
// It reuses the bubbles dot frames outside a bubbletea program.
type Spinner struct {
	out     io.Writer
	frames  []string
	fps     time.Duration
	message atomic.Pointer[string]

	once sync.Once
	quit chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner prepares a spinner that draws on out once started.
func NewSpinner(out io.Writer, message string) *Spinner {
	s := &Spinner{
		out:    out,
		frames: spinner.Dot.Frames,
		fps:    spinner.Dot.FPS,
		quit:   make(chan struct{}),
	}
	s.SetMessage(message)
	return s
}

// SetMessage changes the text shown next to the frame.
func (s *Spinner) SetMessage(message string) {
	s.message.Store(&message)
}

// Start draws frames until Stop is called.
func (s *Spinner) Start() {
	s.wg.Add(1)
	go s.loop()
}

func (s *Spinner) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.fps)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.quit:
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-ticker.C:
			glyph := StyleTag.Render(s.frames[frame%len(s.frames)])
			fmt.Fprintf(s.out, "\r\033[K  %s %s", glyph, Dim(*s.message.Load()))
		}
	}
}

// Stop clears the line and waits for the drawing goroutine. It may be called
// more than once, and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.quit) })
	s.wg.Wait()
}
