// Package log defines standard attribute keys for tree construction and inference.
//
// Keys follow a hierarchical naming convention (e.g. "model.name", "tree.node_id")
// so the event stream of a build can be filtered and correlated in log tooling.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model. Examples: "DecisionTree"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "build", "fit", "predict", "classify", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component is performing the operation.
	// Examples: "builder", "estimator", "viz", "cli"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples in the dataset or node.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features per sample.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of distinct labels.
	ClassesKey = "data.classes"

	// SourceKey names where a dataset was read from.
	SourceKey = "data.source"

	// OutputKey names a file a command wrote.
	OutputKey = "output.path"
)

// Tree construction
const (
	// NodeIDKey is the build-local id of a tree node.
	NodeIDKey = "tree.node_id"

	// DepthKey is the depth of a node, root is 0.
	DepthKey = "tree.depth"

	// EventKey is the build event type: "split", "leaf" or "done".
	EventKey = "tree.event"

	// StepKey is the 1-based index of an event within a build.
	StepKey = "tree.step"

	// NodesKey, LeavesKey and EventsKey summarize a finished tree.
	NodesKey  = "tree.nodes"
	LeavesKey = "tree.leaves"
	EventsKey = "tree.events"

	// ReasonKey is the stopping rule that turned a node into a leaf.
	ReasonKey = "tree.reason"

	// FeatureIndexKey is the feature a split node tests.
	FeatureIndexKey = "tree.feature_index"

	// ThresholdKey is the cut point of a split node.
	ThresholdKey = "tree.threshold"

	// GainKey is the impurity reduction of a split.
	GainKey = "tree.gain"

	// ImpurityKey is the impurity of a node's samples.
	ImpurityKey = "tree.impurity"

	// PredictionKey is the majority label of a node.
	PredictionKey = "tree.prediction"

	// MaxDepthKey and MinSamplesSplitKey record build hyperparameters.
	MaxDepthKey        = "hyperparams.max_depth"
	MinSamplesSplitKey = "hyperparams.min_samples_split"
	CriterionKey       = "hyperparams.criterion"
)

// Performance and results
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy in [0.0, 1.0].
	AccuracyKey = "metrics.accuracy"

	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationBuild    = "build"
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationClassify = "classify"
	OperationScore    = "score"
	OperationRender   = "render"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
)
