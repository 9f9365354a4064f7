package analysis

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/touchline/internal/contract"
)

// logAnalysisHeader prints a concise, 2-line header for an analysis to stderr.
func logAnalysisHeader(cfg *contract.Config, subject, kind string) {
	pitch := cfg.PitchTemplate
	if pitch == "" {
		pitch = "meters"
	}
	// Line 1: what is analyzed
	fmt.Fprintf(os.Stderr, "🔎 %s: %s (%s)\n", kind, filepath.Base(subject), pitch)
	// Line 2: the model settings in effect
	fmt.Fprintf(os.Stderr, "⚙️  Framerate: %g fps, difference: %s, window: %gs\n",
		cfg.Framerate, cfg.Difference, cfg.WindowSeconds)
}
