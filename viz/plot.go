package viz

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/treeviz/metrics"
	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/sklearn/tree"
)

// 描画領域の余白（データ範囲に対する割合）
const plotPadding = 0.05

// LabelColor はラベルの出現順インデックスに対応する色を返す
func LabelColor(i int) color.Color {
	return plotutil.Color(i)
}

// region is the axis-aligned box a node owns in the (fx, fy) plane.
type region struct {
	xmin, xmax, ymin, ymax float64
}

// PlotOption configures PartitionPlot.
type PlotOption func(*plotConfig)

type plotConfig struct {
	title        string
	featureNames []string
}

// WithTitle sets the plot title.
func WithTitle(title string) PlotOption {
	return func(c *plotConfig) {
		c.title = title
	}
}

// WithFeatureNames names the axes after the given feature columns.
func WithFeatureNames(names ...string) PlotOption {
	return func(c *plotConfig) {
		c.featureNames = names
	}
}

// PartitionPlot は特徴量 fx, fy の平面上にサンプルの散布図と分割境界を描く
//
// 境界線は各ノードが担当する領域の内側だけに引かれる。fx, fy 以外の特徴量での
// 分割は線を引かず、両方の子に同じ領域を渡す。構築途中の木も描画できる。
func PartitionPlot(root *tree.Node, samples []tree.Sample, fx, fy int, opts ...PlotOption) (*plot.Plot, error) {
	const op = "PartitionPlot"
	if len(samples) == 0 {
		return nil, errors.NewModelError(op, "empty dataset", errors.ErrEmptyData)
	}
	nFeatures := len(samples[0].Features)
	if fx < 0 || fx >= nFeatures {
		return nil, errors.NewValidationError("fx", "feature index out of range", fx)
	}
	if fy < 0 || fy >= nFeatures {
		return nil, errors.NewValidationError("fy", "feature index out of range", fy)
	}

	cfg := plotConfig{title: "Decision tree partition"}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = featureLabel(fx, cfg.featureNames)
	p.Y.Label.Text = featureLabel(fy, cfg.featureNames)

	labels := make([]string, len(samples))
	for i, s := range samples {
		if len(s.Features) != nFeatures {
			return nil, errors.NewDimensionError(op, nFeatures, len(s.Features), 1)
		}
		labels[i] = s.Label
	}

	bounds := region{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, s := range samples {
		x, y := s.Features[fx], s.Features[fy]
		bounds.xmin, bounds.xmax = math.Min(bounds.xmin, x), math.Max(bounds.xmax, x)
		bounds.ymin, bounds.ymax = math.Min(bounds.ymin, y), math.Max(bounds.ymax, y)
	}
	bounds = bounds.pad(plotPadding)

	var lines []plot.Plotter
	if err := partitionLines(root, fx, fy, bounds, &lines); err != nil {
		return nil, err
	}
	p.Add(lines...)

	for i, label := range metrics.Labels(labels) {
		var pts plotter.XYs
		for _, s := range samples {
			if s.Label == label {
				pts = append(pts, plotter.XY{X: s.Features[fx], Y: s.Features[fy]})
			}
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "scatter for label %q", label)
		}
		scatter.GlyphStyle.Color = LabelColor(i)
		scatter.GlyphStyle.Shape = plotutil.Shape(i)
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add(label, scatter)
	}

	p.X.Min, p.X.Max = bounds.xmin, bounds.xmax
	p.Y.Min, p.Y.Max = bounds.ymin, bounds.ymax
	p.Legend.Top = true
	return p, nil
}

func (r region) pad(frac float64) region {
	dx := (r.xmax - r.xmin) * frac
	dy := (r.ymax - r.ymin) * frac
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	return region{r.xmin - dx, r.xmax + dx, r.ymin - dy, r.ymax + dy}
}

func partitionLines(n *tree.Node, fx, fy int, r region, out *[]plot.Plotter) error {
	if n == nil || !n.IsSplit() {
		return nil
	}

	left, right := r, r
	var seg plotter.XYs
	switch n.FeatureIndex {
	case fx:
		t := clamp(n.Threshold, r.xmin, r.xmax)
		seg = plotter.XYs{{X: t, Y: r.ymin}, {X: t, Y: r.ymax}}
		left.xmax, right.xmin = t, t
	case fy:
		t := clamp(n.Threshold, r.ymin, r.ymax)
		seg = plotter.XYs{{X: r.xmin, Y: t}, {X: r.xmax, Y: t}}
		left.ymax, right.ymin = t, t
	}

	if seg != nil {
		line, err := plotter.NewLine(seg)
		if err != nil {
			return errors.Wrapf(err, "boundary of node %d", n.ID)
		}
		line.LineStyle.Width = vg.Points(math.Max(0.5, 2.5-0.5*float64(n.Depth)))
		line.LineStyle.Color = color.Gray{Y: 64}
		if n.Depth > 0 {
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		*out = append(*out, line)
	}

	if err := partitionLines(n.Left, fx, fy, left, out); err != nil {
		return err
	}
	return partitionLines(n.Right, fx, fy, right, out)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// SavePlot は拡張子（.png, .svg, .pdf など）に応じた形式で plot を書き出す
// 描画中の panic はエラーとして返す
func SavePlot(p *plot.Plot, path string, width, height vg.Length) error {
	if p == nil {
		return errors.NewValueError("SavePlot", "nil plot")
	}
	return errors.SafeExecute("SavePlot", func() error {
		return errors.Wrapf(p.Save(width, height, path), "saving plot to %s", path)
	})
}
