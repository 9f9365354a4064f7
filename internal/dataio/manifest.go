package dataio

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/schema"
)

// Manifest describes an observation on disk. File paths are relative to the manifest.
type Manifest struct {
	Name      string            `yaml:"name"`
	Framerate float64           `yaml:"framerate"`
	Pitch     PitchManifest     `yaml:"pitch,omitempty"`
	Segments  []SegmentManifest `yaml:"segments"`

	dir string
}

// PitchManifest selects a pitch template and its optional dimensions.
type PitchManifest struct {
	Template string  `yaml:"template,omitempty"`
	Length   float64 `yaml:"length,omitempty"`
	Width    float64 `yaml:"width,omitempty"`
	Sport    string  `yaml:"sport,omitempty"`
}

// SegmentManifest lists the files of one segment, keyed by team.
type SegmentManifest struct {
	ID         string                              `yaml:"id"`
	Offset     float64                             `yaml:"offset,omitempty"`
	XY         map[schema.TeamKey]string           `yaml:"xy,omitempty"`
	Direction  map[schema.TeamKey]schema.Direction `yaml:"direction,omitempty"`
	Events     map[schema.TeamKey]string           `yaml:"events,omitempty"`
	Teamsheets map[schema.TeamKey]string           `yaml:"teamsheets,omitempty"`
	Codes      map[string]string                   `yaml:"codes,omitempty"`
}

// LoadManifest reads and validates a YAML manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// ParseManifest decodes and validates manifest YAML. Relative paths resolve against the
// working directory.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Framerate <= 0 {
		return fmt.Errorf("%w: framerate must be positive (received %g)", core.ErrInvalidArgument, m.Framerate)
	}
	if len(m.Segments) == 0 {
		return fmt.Errorf("%w: at least one segment is required", core.ErrInvalidArgument)
	}
	seen := make(map[string]struct{}, len(m.Segments))
	for i, seg := range m.Segments {
		if seg.ID == "" {
			return fmt.Errorf("%w: segment %d has no id", core.ErrInvalidArgument, i)
		}
		if _, dup := seen[seg.ID]; dup {
			return fmt.Errorf("%w: duplicate segment %q", core.ErrInvalidArgument, seg.ID)
		}
		seen[seg.ID] = struct{}{}
		for _, teams := range []map[schema.TeamKey]string{seg.XY, seg.Events, seg.Teamsheets} {
			for team := range teams {
				if _, ok := schema.ValidTeamKeys[team]; !ok {
					return fmt.Errorf("%w: segment %q has unknown team %q", core.ErrInvalidArgument, seg.ID, team)
				}
			}
		}
		for team, dir := range seg.Direction {
			if dir != schema.LeftToRight && dir != schema.RightToLeft {
				return fmt.Errorf("%w: segment %q team %q has direction %q (expected lr or rl)", core.ErrInvalidArgument, seg.ID, team, dir)
			}
		}
	}
	return nil
}

// BuildPitch builds the manifest's pitch, or nil when no template is given.
func (m *Manifest) BuildPitch() (*core.Pitch, error) {
	if m.Pitch.Template == "" {
		return nil, nil
	}
	var opts []core.PitchOption
	if m.Pitch.Length > 0 {
		opts = append(opts, core.WithLength(m.Pitch.Length))
	}
	if m.Pitch.Width > 0 {
		opts = append(opts, core.WithWidth(m.Pitch.Width))
	}
	if m.Pitch.Sport != "" {
		opts = append(opts, core.WithSport(m.Pitch.Sport))
	}
	return core.FromTemplate(m.Pitch.Template, opts...)
}

func (m *Manifest) resolve(path string) string {
	if filepath.IsAbs(path) || m.dir == "" {
		return path
	}
	return filepath.Join(m.dir, path)
}

// Observation loads every file named by the manifest and assembles the observation.
// Events without a frameclock get one computed at the manifest framerate.
func (m *Manifest) Observation() (*core.Observation, error) {
	pitch, err := m.BuildPitch()
	if err != nil {
		return nil, err
	}
	obs := core.NewObservation(m.Name, pitch)
	for _, sm := range m.Segments {
		seg, err := m.loadSegment(sm)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", sm.ID, err)
		}
		if err := obs.AddSegment(seg); err != nil {
			return nil, err
		}
	}
	return obs, nil
}

func (m *Manifest) loadSegment(sm SegmentManifest) (*core.Segment, error) {
	seg := core.NewSegment(sm.ID, sm.Offset)

	for _, team := range slices.Sorted(maps.Keys(sm.XY)) {
		var opts []core.XYOption
		if dir, ok := sm.Direction[team]; ok {
			opts = append(opts, core.WithDirection(dir))
		}
		xy, err := ReadXY(m.resolve(sm.XY[team]), m.Framerate, opts...)
		if err != nil {
			return nil, fmt.Errorf("xy %s: %w", team, err)
		}
		seg.XY[team] = xy
	}

	for _, team := range slices.Sorted(maps.Keys(sm.Events)) {
		ev, err := ReadEvents(m.resolve(sm.Events[team]))
		if err != nil {
			return nil, fmt.Errorf("events %s: %w", team, err)
		}
		if !ev.HasColumn(string(core.ColFrameclock)) {
			if err := ev.AddFrameclock(m.Framerate); err != nil {
				return nil, fmt.Errorf("events %s: %w", team, err)
			}
		}
		seg.Events[team] = ev
	}

	for _, team := range slices.Sorted(maps.Keys(sm.Teamsheets)) {
		ts, err := ReadTeamsheet(m.resolve(sm.Teamsheets[team]))
		if err != nil {
			return nil, fmt.Errorf("teamsheet %s: %w", team, err)
		}
		seg.Teamsheets[team] = ts
	}

	for _, name := range slices.Sorted(maps.Keys(sm.Codes)) {
		code, err := ReadCode(m.resolve(sm.Codes[name]), name, m.Framerate)
		if err != nil {
			return nil, fmt.Errorf("code %s: %w", name, err)
		}
		seg.Codes[name] = code
	}
	return seg, nil
}
