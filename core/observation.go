package core

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/huangsam/touchline/schema"
)

// Segment groups the containers describing one temporally distinct part of an observation,
// keyed by team. Gameclocks of its events are relative to the segment start.
type Segment struct {
	ID string
	// Offset is the segment start in seconds since the start of the observation.
	Offset     float64
	XY         map[schema.TeamKey]*XY
	Codes      map[string]*Code
	Events     map[schema.TeamKey]*Events
	Teamsheets map[schema.TeamKey]*Teamsheet
}

// NewSegment returns an empty segment.
func NewSegment(id string, offset float64) *Segment {
	return &Segment{
		ID:         id,
		Offset:     offset,
		XY:         make(map[schema.TeamKey]*XY),
		Codes:      make(map[string]*Code),
		Events:     make(map[schema.TeamKey]*Events),
		Teamsheets: make(map[schema.TeamKey]*Teamsheet),
	}
}

// Teams returns the team keys with tracking data, sorted.
func (s *Segment) Teams() []schema.TeamKey {
	return slices.Sorted(maps.Keys(s.XY))
}

// framed returns every frame-based container in a deterministic order.
func (s *Segment) framed() []namedFramed {
	var out []namedFramed
	for _, team := range s.Teams() {
		out = append(out, namedFramed{"xy:" + string(team), s.XY[team]})
	}
	for _, name := range slices.Sorted(maps.Keys(s.Codes)) {
		out = append(out, namedFramed{"code:" + name, s.Codes[name]})
	}
	return out
}

type namedFramed struct {
	name string
	Framed
}

// Validate checks that all frame-based containers share row count and framerate.
func (s *Segment) Validate() error {
	all := s.framed()
	for _, f := range all[min(1, len(all)):] {
		if err := CheckAligned(all[0], f); err != nil {
			return fmt.Errorf("segment %q: %s and %s are not aligned: %w", s.ID, all[0].name, f.name, err)
		}
	}
	return nil
}

// Len returns the frame count shared by the segment's containers, zero without any.
func (s *Segment) Len() int {
	if all := s.framed(); len(all) > 0 {
		return all[0].Len()
	}
	return 0
}

// Framerate returns the framerate shared by the segment's containers, zero without any.
func (s *Segment) Framerate() float64 {
	if all := s.framed(); len(all) > 0 {
		return all[0].Framerate()
	}
	return 0
}

// Duration returns the segment length in seconds implied by its frame containers.
func (s *Segment) Duration() float64 {
	if fr := s.Framerate(); fr > 0 {
		return float64(s.Len()) / fr
	}
	return 0
}

// Observation is a full recording, such as a match, made of one or more segments.
type Observation struct {
	ID       uuid.UUID
	Name     string
	Pitch    *Pitch
	segments []*Segment
}

// NewObservation creates an observation with a fresh identifier.
func NewObservation(name string, pitch *Pitch) *Observation {
	return &Observation{ID: uuid.New(), Name: name, Pitch: pitch}
}

// AddSegment validates and appends a segment. Segment identifiers must be unique.
func (o *Observation) AddSegment(seg *Segment) error {
	if slices.ContainsFunc(o.segments, func(s *Segment) bool { return s.ID == seg.ID }) {
		return fmt.Errorf("%w: duplicate segment %q", ErrInvalidArgument, seg.ID)
	}
	if err := seg.Validate(); err != nil {
		return err
	}
	o.segments = append(o.segments, seg)
	return nil
}

// Segments returns the segments in insertion order.
func (o *Observation) Segments() []*Segment {
	return slices.Clone(o.segments)
}

// Segment returns the segment with the given identifier.
func (o *Observation) Segment(id string) (*Segment, error) {
	idx := slices.IndexFunc(o.segments, func(s *Segment) bool { return s.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("%w: observation %q has no segment %q", ErrKey, o.Name, id)
	}
	return o.segments[idx], nil
}

// MatchTime converts a segment-relative gameclock into seconds since observation start.
func (o *Observation) MatchTime(segmentID string, gameclock float64) (float64, error) {
	seg, err := o.Segment(segmentID)
	if err != nil {
		return 0, err
	}
	return seg.Offset + gameclock, nil
}
