package tree

import "fmt"

// EventType names what a build step decided.
type EventType string

const (
	// EventSplit announces that Node was split into Left and Right.
	EventSplit EventType = "split"
	// EventLeaf announces that Node was finalized as a leaf.
	EventLeaf EventType = "leaf"
	// EventDone is the last event of a build and carries Root.
	EventDone EventType = "done"
)

// Event is one step of a stepwise build. Exactly one of the groups of fields
// is set depending on Type: Node for leaf; Node, Left, Right and Split for
// split; Root for done.
type Event struct {
	// Step is the 1-based position of the event within its build.
	Step int       `json:"step"`
	Type EventType `json:"type"`

	Node  *Node           `json:"node,omitempty"`
	Left  *Node           `json:"left_child,omitempty"`
	Right *Node           `json:"right_child,omitempty"`
	Split *SplitCandidate `json:"split_info,omitempty"`

	Root *Node `json:"root,omitempty"`
}

// String renders the event in the compact form used by event logs, e.g.
// "split(1)", "leaf(3)" or "done".
func (e Event) String() string {
	switch e.Type {
	case EventSplit, EventLeaf:
		if e.Node != nil {
			return fmt.Sprintf("%s(%d)", e.Type, e.Node.ID)
		}
	}
	return string(e.Type)
}
