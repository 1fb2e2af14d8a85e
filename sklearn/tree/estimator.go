package tree

import (
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeviz/core/model"
	"github.com/YuminosukeSato/treeviz/core/parallel"
	"github.com/YuminosukeSato/treeviz/metrics"
	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/pkg/log"
)

const modelName = "DecisionTreeClassifier"

// 並列予測の閾値（この値以下の行数では逐次処理を使用）
const parallelThreshold = 1000

// NoMaxDepth は深さ制限なしを表す max_depth の値
const NoMaxDepth = -1

var (
	_ model.Classifier      = (*DecisionTreeClassifier)(nil)
	_ model.ParameterGetter = (*DecisionTreeClassifier)(nil)
	_ model.ParameterSetter = (*DecisionTreeClassifier)(nil)
)

// DecisionTreeClassifier はscikit-learn互換の決定木分類器
// 学習は BuildTreeStepwise を最後まで進めることで行う。
// ラベルは数値（float64）で受け取り、内部では文字列として扱う。
type DecisionTreeClassifier struct {
	state *model.StateManager

	criterion       string
	maxDepth        int
	minSamplesSplit int
	logger          log.Logger

	root               *Node
	classes            []float64
	classIndex         map[string]int
	featureImportances []float64
	nEvents            int
}

// Option は DecisionTreeClassifier を設定する関数
type Option func(*DecisionTreeClassifier)

// WithCriterionName は不純度の指標を名前で設定する（"gini" または "entropy"）
func WithCriterionName(criterion string) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.criterion = criterion
	}
}

// WithMaxDepth は木の最大深さを設定する。NoMaxDepth で制限なし
func WithMaxDepth(depth int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit は分割に必要な最小サンプル数を設定する
func WithMinSamplesSplit(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesSplit = n
	}
}

// WithEstimatorLogger は学習・予測のログ出力先を設定する
func WithEstimatorLogger(l log.Logger) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.logger = l
	}
}

// NewDecisionTreeClassifier は新しい決定木分類器を作成する
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		state:           model.NewStateManager(),
		criterion:       string(CriterionGini),
		maxDepth:        NoMaxDepth,
		minSamplesSplit: 2,
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

func (dt *DecisionTreeClassifier) log() log.Logger {
	l := dt.logger
	if l == nil {
		l = log.GetLogger()
	}
	return l.With(log.ModelNameKey, modelName)
}

// Fit は訓練データで木を構築する
// X は (サンプル数 × 特徴量数)、y は (サンプル数 × 1) の行列
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	const op = modelName + ".Fit"
	start := time.Now()

	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}

	criterion, err := ParseCriterion(dt.criterion)
	if err != nil {
		return errors.NewValidationError("criterion", err.Error(), dt.criterion)
	}
	depth := dt.maxDepth
	if depth == NoMaxDepth {
		depth = math.MaxInt32
	}

	// 入力行列はFit後に変更される可能性があるため、サンプルとしてコピーする
	samples := make([]Sample, r)
	seen := make(map[float64]bool)
	var classes []float64
	for i := 0; i < r; i++ {
		v := y.At(i, 0)
		if err := errors.CheckScalar(op, v, i); err != nil {
			return err
		}
		samples[i] = Sample{Features: mat.Row(nil, i, X), Label: formatLabel(v)}
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Float64s(classes)

	b, err := BuildTreeStepwise(samples, depth, dt.minSamplesSplit,
		WithCriterion(criterion),
		WithLogger(dt.logger),
	)
	if err != nil {
		return err
	}
	events := b.Drain()

	dt.root = b.Root()
	dt.nEvents = len(events)
	dt.classes = classes
	dt.classIndex = make(map[string]int, len(classes))
	for i, v := range classes {
		dt.classIndex[formatLabel(v)] = i
	}
	dt.featureImportances = featureImportances(dt.root, c)
	dt.state.SetFitted(c, r)

	dt.log().Info("tree fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.ClassesKey, len(classes),
		log.DepthKey, dt.root.MaxDepth(),
		log.LeavesKey, len(dt.root.Leaves()),
		log.EventsKey, len(events),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict は各行のクラスを予測し、(行数 × 1) の行列で返す
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	leaves, err := dt.leavesFor(X, "Predict")
	if err != nil {
		return nil, err
	}

	predictions := mat.NewDense(len(leaves), 1, nil)
	for i, leaf := range leaves {
		v, err := strconv.ParseFloat(leaf.Prediction, 64)
		if err != nil {
			return nil, errors.NewModelError(modelName+".Predict", "non-numeric label", err)
		}
		predictions.Set(i, 0, v)
	}
	return predictions, nil
}

// PredictProba は到達した葉のラベル分布から各クラスの確率を返す
// 列の順序は Classes() に従う
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	leaves, err := dt.leavesFor(X, "PredictProba")
	if err != nil {
		return nil, err
	}

	probas := mat.NewDense(len(leaves), len(dt.classes), nil)
	for i, leaf := range leaves {
		n := float64(len(leaf.Samples))
		for _, lc := range ClassCounts(leaf.Samples) {
			probas.Set(i, dt.classIndex[lc.Label], float64(lc.Count)/n)
		}
	}
	return probas, nil
}

// Score は正解率を返す
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) (float64, error) {
	preds, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := preds.Dims()
	ry, cy := y.Dims()
	if ry != r {
		return 0, errors.NewDimensionError(modelName+".Score", r, ry, 0)
	}
	if cy != 1 {
		return 0, errors.NewValueError(modelName+".Score", "y must be a column vector")
	}

	yTrue := make([]string, r)
	yPred := make([]string, r)
	for i := 0; i < r; i++ {
		yTrue[i] = formatLabel(y.At(i, 0))
		yPred[i] = formatLabel(preds.At(i, 0))
	}
	acc, err := metrics.Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	dt.log().Debug("scored", log.OperationKey, log.OperationScore, log.AccuracyKey, acc)
	return acc, nil
}

// leavesFor は各行を分類して到達した葉を返す
// 行数が閾値を超える場合は並列に処理する（木は読み取り専用）
func (dt *DecisionTreeClassifier) leavesFor(X mat.Matrix, method string) ([]*Node, error) {
	if err := dt.state.RequireFitted(modelName, method); err != nil {
		return nil, err
	}
	nFeatures, _ := dt.state.GetDimensions()
	r, c := X.Dims()
	if r == 0 {
		return nil, errors.NewModelError(modelName+"."+method, "empty data", errors.ErrEmptyData)
	}
	if c != nFeatures {
		return nil, errors.NewDimensionError(modelName+"."+method, nFeatures, c, 1)
	}

	leaves := make([]*Node, r)
	var (
		mu       sync.Mutex
		firstErr error
	)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		row := make([]float64, c)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			path, err := ClassifyPath(dt.root, row)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			leaves[i] = path[len(path)-1]
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}

	dt.log().Debug("classified rows",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, r,
	)
	return leaves, nil
}

// Root は学習済みの木の根を返す（未学習なら nil）
func (dt *DecisionTreeClassifier) Root() *Node {
	return dt.root
}

// Classes は学習時に観測したクラスを昇順で返す
func (dt *DecisionTreeClassifier) Classes() []float64 {
	return append([]float64(nil), dt.classes...)
}

// GetDepth は木の深さを返す
func (dt *DecisionTreeClassifier) GetDepth() int {
	if dt.root == nil {
		return 0
	}
	return dt.root.MaxDepth()
}

// GetNLeaves は葉の数を返す
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	if dt.root == nil {
		return 0
	}
	return len(dt.root.Leaves())
}

// GetNEvents は学習時に発生した構築イベント数（done を含む）を返す
func (dt *DecisionTreeClassifier) GetNEvents() int {
	return dt.nEvents
}

// GetFeatureImportances は特徴量重要度（重み付き不純度減少量の正規化値）を返す
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	return append([]float64(nil), dt.featureImportances...)
}

// GetParams はハイパーパラメータを返す
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         dt.criterion,
		"max_depth":         dt.maxDepth,
		"min_samples_split": dt.minSamplesSplit,
	}
}

// SetParams はハイパーパラメータを設定する
// 値は次回の Fit から有効になる
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "criterion":
			s, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			if _, err := ParseCriterion(s); err != nil {
				return errors.NewValidationError(key, err.Error(), value)
			}
			dt.criterion = s
		case "max_depth":
			v, ok := toInt(value)
			if !ok || (v < 0 && v != NoMaxDepth) {
				return errors.NewValidationError(key, "must be an integer >= 0 or -1", value)
			}
			dt.maxDepth = v
		case "min_samples_split":
			v, ok := toInt(value)
			if !ok || v < 1 {
				return errors.NewValidationError(key, "must be an integer >= 1", value)
			}
			dt.minSamplesSplit = v
		default:
			return errors.NewValueError(modelName+".SetParams", "unknown parameter: "+key)
		}
	}
	return nil
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func formatLabel(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func featureImportances(root *Node, nFeatures int) []float64 {
	importances := make([]float64, nFeatures)
	total := float64(len(root.Samples))
	root.Walk(func(n *Node) bool {
		if n.IsSplit() && n.FeatureIndex < nFeatures {
			importances[n.FeatureIndex] += float64(len(n.Samples)) / total * n.InfoGain
		}
		return true
	})

	sum := 0.0
	for _, v := range importances {
		sum += v
	}
	if sum > 0 {
		for i := range importances {
			importances[i] /= sum
		}
	}
	return importances
}
