package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [██░░] 2/4 for done out of total.
// Complete bars are green, partial ones yellow and empty ones red.
func RenderProgress(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	done = min(max(done, 0), total)
	width = max(width, 2)

	filled := done * width / total
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleWarn
	switch done {
	case total:
		style = StyleOK
	case 0:
		style = StyleError
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), done, total)
}
