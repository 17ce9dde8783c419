package outwriter

import (
	"os"

	"github.com/huangsam/peloton/internal/contract"
	"golang.org/x/term"
)

// Name column bounds.
const (
	minNameWidth = 10
	maxNameWidth = 30
)

// terminalWidth returns the configured width, the detected terminal width or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxTableNameWidth calculates the width left for each of the rider and team
// columns once the fixed columns of a table are reserved.
func GetMaxTableNameWidth(cfg *contract.Config, fixedWidth int) int {
	// Two name columns share what is left after borders and padding
	available := (terminalWidth(cfg) - fixedWidth - 20) / 2
	if available < minNameWidth {
		return minNameWidth
	}
	if available > maxNameWidth {
		return maxNameWidth
	}
	return available
}
