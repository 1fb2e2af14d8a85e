package tree

import (
	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/pkg/log"
)

// Leaf reasons reported in debug logs and degenerate-tree warnings.
const (
	reasonMaxDepth     = "max_depth reached"
	reasonMinSamples   = "fewer samples than min_samples_split"
	reasonPure         = "pure node"
	reasonNoCandidate  = "no valid threshold"
	reasonNoPositiveIG = "no positive information gain"
)

// BuildOption configures a Builder.
type BuildOption func(*Builder)

// WithCriterion sets the impurity criterion. The default is CriterionGini.
func WithCriterion(c Criterion) BuildOption {
	return func(b *Builder) {
		b.criterion = c
	}
}

// WithLogger sets the logger that receives one debug record per event.
// The default is log.GetLogger().
func WithLogger(l log.Logger) BuildOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// Builder grows a tree breadth-first and yields one Event per call to Next.
//
// A Builder owns its queue and node-id counter; nothing is shared between
// builders. It is not safe for concurrent use. Abandoning a Builder before it
// is done needs no cleanup.
type Builder struct {
	maxDepth        int
	minSamplesSplit int
	criterion       Criterion
	logger          log.Logger

	queue    []*Node
	nextID   int
	step     int
	root     *Node
	finished bool
}

// BuildTreeStepwise validates its inputs and returns a Builder whose queue is
// seeded with the root node (id 1). No further work happens until Next is called.
//
// It rejects maxDepth < 0, minSamplesSplit < 1, an empty dataset, feature
// vectors of differing lengths and non-finite feature values. Nodes keep
// pointers into samples, so the slice must not be modified while the tree is
// in use.
func BuildTreeStepwise(samples []Sample, maxDepth, minSamplesSplit int, opts ...BuildOption) (*Builder, error) {
	const op = "BuildTreeStepwise"

	if maxDepth < 0 {
		return nil, errors.NewValidationError("max_depth", "must be >= 0", maxDepth)
	}
	if minSamplesSplit < 1 {
		return nil, errors.NewValidationError("min_samples_split", "must be >= 1", minSamplesSplit)
	}
	if len(samples) == 0 {
		return nil, errors.NewModelError(op, "empty dataset", errors.ErrEmptyData)
	}

	nFeatures := len(samples[0].Features)
	refs := make([]*Sample, len(samples))
	for i := range samples {
		if got := len(samples[i].Features); got != nFeatures {
			return nil, errors.NewDimensionError(op, nFeatures, got, 1)
		}
		if err := errors.CheckFinite(op, samples[i].Features, i); err != nil {
			return nil, err
		}
		refs[i] = &samples[i]
	}

	b := &Builder{
		maxDepth:        maxDepth,
		minSamplesSplit: minSamplesSplit,
		criterion:       CriterionGini,
		logger:          log.GetLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if _, err := ParseCriterion(string(b.criterion)); err != nil {
		return nil, errors.NewValidationError("criterion", err.Error(), b.criterion)
	}
	b.logger = b.logger.With(log.ModelNameKey, "DecisionTree", log.ComponentKey, "builder")

	b.root = b.newNode(refs, 0)
	b.queue = append(b.queue, b.root)

	b.logger.Debug("build started",
		log.OperationKey, log.OperationBuild,
		log.SamplesKey, len(samples),
		log.FeaturesKey, nFeatures,
		log.MaxDepthKey, maxDepth,
		log.MinSamplesSplitKey, minSamplesSplit,
		log.CriterionKey, string(b.criterion),
	)
	return b, nil
}

// BuildTree runs a stepwise build to completion and returns the root together
// with every event that was emitted.
func BuildTree(samples []Sample, maxDepth, minSamplesSplit int, opts ...BuildOption) (*Node, []Event, error) {
	b, err := BuildTreeStepwise(samples, maxDepth, minSamplesSplit, opts...)
	if err != nil {
		return nil, nil, err
	}
	events := b.Drain()
	return b.Root(), events, nil
}

// Next decides the node at the head of the queue and returns the resulting
// event. Once the queue is empty it returns a single done event, and every
// call after that returns false.
func (b *Builder) Next() (Event, bool) {
	if b.finished {
		return Event{}, false
	}
	b.step++

	if len(b.queue) == 0 {
		b.finished = true
		b.logger.Debug("build finished",
			log.StepKey, b.step,
			log.EventKey, string(EventDone),
			log.NodesKey, b.nextID-1,
		)
		return Event{Step: b.step, Type: EventDone, Root: b.root}, true
	}

	node := b.queue[0]
	b.queue[0] = nil
	b.queue = b.queue[1:]

	split, reason, ok := b.decide(node)
	if !ok {
		node.makeLeaf()
		b.logger.Debug("node finalized as leaf",
			log.StepKey, b.step,
			log.EventKey, string(EventLeaf),
			log.NodeIDKey, node.ID,
			log.DepthKey, node.Depth,
			log.SamplesKey, len(node.Samples),
			log.PredictionKey, node.Prediction,
			log.ReasonKey, reason,
		)
		if node == b.root && node.Impurity > 0 {
			errors.Warn(errors.NewDegenerateTreeWarning(reason, len(node.Samples), node.Impurity))
		}
		return Event{Step: b.step, Type: EventLeaf, Node: node}, true
	}

	leftSamples, rightSamples := Partition(node.Samples, split.FeatureIndex, split.Threshold)
	left := b.newNode(leftSamples, node.Depth+1)
	right := b.newNode(rightSamples, node.Depth+1)
	node.makeSplit(split, left, right)

	b.logger.Debug("node split",
		log.StepKey, b.step,
		log.EventKey, string(EventSplit),
		log.NodeIDKey, node.ID,
		log.DepthKey, node.Depth,
		log.FeatureIndexKey, split.FeatureIndex,
		log.ThresholdKey, split.Threshold,
		log.GainKey, split.Gain,
	)

	ev := Event{
		Step:  b.step,
		Type:  EventSplit,
		Node:  node,
		Left:  left,
		Right: right,
		Split: &split,
	}
	b.queue = append(b.queue, left, right)
	return ev, true
}

// Drain runs the build to completion and returns the remaining events.
func (b *Builder) Drain() []Event {
	var events []Event
	for {
		ev, ok := b.Next()
		if !ok {
			return events
		}
		events = append(events, ev)
	}
}

// Take returns up to n further events. It returns fewer when the build
// finishes first.
func (b *Builder) Take(n int) []Event {
	events := make([]Event, 0, n)
	for len(events) < n {
		ev, ok := b.Next()
		if !ok {
			break
		}
		events = append(events, ev)
	}
	return events
}

// Done reports whether the done event has been emitted.
func (b *Builder) Done() bool {
	return b.finished
}

// Pending returns the number of nodes waiting for a decision.
func (b *Builder) Pending() int {
	return len(b.queue)
}

// Steps returns the number of events emitted so far.
func (b *Builder) Steps() int {
	return b.step
}

// Root returns the root node. Before Done it may still contain pending nodes.
func (b *Builder) Root() *Node {
	return b.root
}

func (b *Builder) newNode(samples []*Sample, depth int) *Node {
	b.nextID++
	return &Node{
		ID:         b.nextID,
		Samples:    samples,
		Depth:      depth,
		Prediction: majority(samples),
		Impurity:   b.criterion.Impurity(samples),
		Kind:       KindPending,
	}
}

// decide applies the stopping rules in order and otherwise returns the best split.
func (b *Builder) decide(node *Node) (SplitCandidate, string, bool) {
	switch {
	case node.Depth >= b.maxDepth:
		return SplitCandidate{}, reasonMaxDepth, false
	case len(node.Samples) < b.minSamplesSplit:
		return SplitCandidate{}, reasonMinSamples, false
	case node.Impurity == 0:
		return SplitCandidate{}, reasonPure, false
	}

	split, found := FindBestSplitWith(node.Samples, b.criterion)
	if !found {
		return SplitCandidate{}, reasonNoCandidate, false
	}
	if split.Gain <= 0 {
		return SplitCandidate{}, reasonNoPositiveIG, false
	}
	return split, "", true
}
