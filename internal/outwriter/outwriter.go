// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the analysis logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WritePitch prints a pitch description using the configured output format.
func (ow *OutWriter) WritePitch(summary schema.PitchSummary, cfg *contract.Config) error {
	return WritePitch(summary, cfg)
}

// WriteTracking prints tracking summaries using the configured output format.
func (ow *OutWriter) WriteTracking(summaries []schema.TrackingSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteTracking(summaries, cfg, duration)
}

// WriteCode prints a coded-state summary using the configured output format.
func (ow *OutWriter) WriteCode(summary schema.CodeSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteCode(summary, cfg, duration)
}

// WriteEventsSummary prints an events summary using the configured output format.
func (ow *OutWriter) WriteEventsSummary(summary schema.EventsSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteEventsSummary(summary, cfg, duration)
}

// WriteEvents prints event rows using the configured output format.
func (ow *OutWriter) WriteEvents(ev *core.Events, cfg *contract.Config, duration time.Duration) error {
	return WriteEvents(ev, cfg, duration)
}

// WriteKinematics prints ranked kinematics using the configured output format.
func (ow *OutWriter) WriteKinematics(ranked []schema.RankedKinematics, cfg *contract.Config, duration time.Duration) error {
	return WriteKinematics(ranked, cfg, duration)
}

// WriteCentroid prints team shape windows using the configured output format.
func (ow *OutWriter) WriteCentroid(windows []schema.CentroidWindow, cfg *contract.Config, duration time.Duration) error {
	return WriteCentroid(windows, cfg, duration)
}

// WriteRun prints an observation run report using the configured output format.
func (ow *OutWriter) WriteRun(report *schema.RunReport, cfg *contract.Config, duration time.Duration) error {
	return WriteRun(report, cfg, duration)
}
