// Package fixture is a gits-backed reference implementation of
// interfaces.ContentModel / interfaces.ContentModelLookup: a declarative
// tree is mapped into a fresh github.com/voodooEntity/gits instance via
// nested transport.TransportEntity/TransportRelation values, then read
// back out through a gits query so the in-process Model tree is exactly
// what the graph store would hand back to any other consumer. It exists
// for tests and the example command; a real host supplies its own
// ContentModel port backed by its authoring runtime instead.
package fixture

import "strconv"

// Spec declaratively describes one content-model node before it is mapped
// into gits. Boolean/numeric fields are zero-valued (false/0) unless set;
// Available is a convenience constructor for the common "available and
// attached" case so callers don't have to repeat those two flags on every
// node.
type Spec struct {
	ID            string
	Type          string
	ComponentType string
	TypeGroups    []string

	IsAvailable           bool
	IsComplete            bool
	IsInteractionComplete bool
	IsActive              bool
	IsVisited             bool
	IsCorrect             bool
	IsOptional            bool
	IsTrackable           bool
	IsAttached            bool

	Score    float64
	MinScore float64
	MaxScore float64

	TrackingPosition string

	Children []*Spec
}

// Available returns a Spec with IsAvailable and IsAttached already set,
// since nearly every fixture node in a test or demo tree needs both.
func Available(id, typ string) *Spec {
	return &Spec{ID: id, Type: typ, IsAvailable: true, IsAttached: true}
}

func (s *Spec) WithComponentType(c string) *Spec {
	s.ComponentType = c
	return s
}

func (s *Spec) WithTypeGroups(groups ...string) *Spec {
	s.TypeGroups = groups
	return s
}

func (s *Spec) WithScore(score, min, max float64) *Spec {
	s.Score, s.MinScore, s.MaxScore = score, min, max
	return s
}

func (s *Spec) WithChildren(children ...*Spec) *Spec {
	s.Children = append(s.Children, children...)
	return s
}

const (
	attrIsAvailable           = "isAvailable"
	attrIsComplete            = "isComplete"
	attrIsInteractionComplete = "isInteractionComplete"
	attrIsActive              = "isActive"
	attrIsVisited             = "isVisited"
	attrIsCorrect             = "isCorrect"
	attrIsOptional            = "isOptional"
	attrIsTrackable           = "isTrackable"
	attrIsAttached            = "isAttached"
	attrScore                 = "score"
	attrMinScore              = "minScore"
	attrMaxScore              = "maxScore"
	attrComponentType         = "componentType"
	attrTypeGroups            = "typeGroups"
	attrTrackingPosition      = "trackingPosition"
)

// properties renders the Spec's fields into the flat string map gits
// entities carry.
func (s *Spec) properties() map[string]string {
	p := map[string]string{
		attrIsAvailable:           strconv.FormatBool(s.IsAvailable),
		attrIsComplete:            strconv.FormatBool(s.IsComplete),
		attrIsInteractionComplete: strconv.FormatBool(s.IsInteractionComplete),
		attrIsActive:              strconv.FormatBool(s.IsActive),
		attrIsVisited:             strconv.FormatBool(s.IsVisited),
		attrIsCorrect:             strconv.FormatBool(s.IsCorrect),
		attrIsOptional:            strconv.FormatBool(s.IsOptional),
		attrIsTrackable:           strconv.FormatBool(s.IsTrackable),
		attrIsAttached:            strconv.FormatBool(s.IsAttached),
		attrScore:                 strconv.FormatFloat(s.Score, 'g', -1, 64),
		attrMinScore:              strconv.FormatFloat(s.MinScore, 'g', -1, 64),
		attrMaxScore:              strconv.FormatFloat(s.MaxScore, 'g', -1, 64),
		attrComponentType:         s.ComponentType,
	}
	trackingPosition := s.TrackingPosition
	if trackingPosition == "" {
		trackingPosition = s.ID
	}
	p[attrTrackingPosition] = trackingPosition
	if len(s.TypeGroups) > 0 {
		joined := s.TypeGroups[0]
		for _, g := range s.TypeGroups[1:] {
			joined += "," + g
		}
		p[attrTypeGroups] = joined
	}
	return p
}
