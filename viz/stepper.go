package viz

import (
	"github.com/YuminosukeSato/treeviz/pkg/log"
	"github.com/YuminosukeSato/treeviz/sklearn/tree"
)

// Row is the flattened record of one build event.
type Row struct {
	Step       int            `json:"step"`
	Event      tree.EventType `json:"event"`
	NodeID     int            `json:"node_id,omitempty"`
	Depth      int            `json:"depth"`
	Samples    int            `json:"samples"`
	Impurity   float64        `json:"impurity"`
	Prediction string         `json:"prediction,omitempty"`
	// Feature is -1 unless Event is a split.
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold,omitempty"`
	Gain      float64 `json:"gain,omitempty"`
	LeftID    int     `json:"left_id,omitempty"`
	RightID   int     `json:"right_id,omitempty"`
	// Pending is the number of queued nodes after the event.
	Pending int `json:"pending"`
}

// NewRow flattens ev. pending is the queue length after the event.
func NewRow(ev tree.Event, pending int) Row {
	row := Row{Step: ev.Step, Event: ev.Type, Feature: -1, Pending: pending}

	node := ev.Node
	if ev.Type == tree.EventDone {
		node = ev.Root
	}
	if node != nil {
		row.Depth = node.Depth
		row.Samples = len(node.Samples)
		row.Impurity = node.Impurity
		row.Prediction = node.Prediction
		if ev.Type != tree.EventDone {
			row.NodeID = node.ID
		}
	}
	if ev.Type == tree.EventSplit && ev.Split != nil {
		row.Feature = ev.Split.FeatureIndex
		row.Threshold = ev.Split.Threshold
		row.Gain = ev.Split.Gain
		row.Prediction = ""
		if ev.Left != nil && ev.Right != nil {
			row.LeftID, row.RightID = ev.Left.ID, ev.Right.ID
		}
	}
	return row
}

// Stepper drives a Builder on behalf of a viewer and records every event.
type Stepper struct {
	b      *tree.Builder
	rows   []Row
	logger log.Logger
}

// NewStepper wraps b. The Stepper owns b from here on.
func NewStepper(b *tree.Builder) *Stepper {
	return &Stepper{
		b:      b,
		logger: log.GetLoggerWithName("viz.stepper"),
	}
}

// Step advances the build by one event. It returns false once the build is
// finished.
func (s *Stepper) Step() (Row, bool) {
	ev, ok := s.b.Next()
	if !ok {
		return Row{}, false
	}
	row := NewRow(ev, s.b.Pending())
	s.rows = append(s.rows, row)
	s.logger.Debug("step",
		log.StepKey, row.Step,
		log.EventKey, string(row.Event),
		log.NodeIDKey, row.NodeID,
	)
	return row, true
}

// Run advances up to n events and returns the rows produced.
func (s *Stepper) Run(n int) []Row {
	start := len(s.rows)
	for i := 0; i < n; i++ {
		if _, ok := s.Step(); !ok {
			break
		}
	}
	return s.rows[start:]
}

// Finish drains the build and returns the rows produced.
func (s *Stepper) Finish() []Row {
	start := len(s.rows)
	for {
		if _, ok := s.Step(); !ok {
			break
		}
	}
	return s.rows[start:]
}

// Done reports whether the done event has been recorded.
func (s *Stepper) Done() bool {
	return s.b.Done()
}

// Rows returns every row recorded so far.
func (s *Stepper) Rows() []Row {
	return s.rows
}

// Root returns the tree in its current state.
func (s *Stepper) Root() *tree.Node {
	return s.b.Root()
}
