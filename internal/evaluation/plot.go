package evaluation

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const rocSize = 5 * vg.Inch

// RenderROC draws the curve against the chance diagonal and returns it as
// a PNG image.
func RenderROC(curve Curve, auc float64) ([]byte, error) {
	if len(curve.FPR) != len(curve.TPR) || len(curve.FPR) < 2 {
		return nil, fmt.Errorf("roc curve needs at least 2 paired points, got fpr=%d tpr=%d", len(curve.FPR), len(curve.TPR))
	}

	p := plot.New()
	p.Title.Text = "ROC Curve"
	p.X.Label.Text = "False Positive Rate"
	p.Y.Label.Text = "True Positive Rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = false
	p.Legend.Left = false

	pts := make(plotter.XYs, len(curve.FPR))
	for i := range pts {
		pts[i].X = curve.FPR[i]
		pts[i].Y = curve.TPR[i]
	}
	roc, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("roc line: %w", err)
	}
	roc.LineStyle.Width = vg.Points(2)
	roc.LineStyle.Color = color.RGBA{R: 0xd9, G: 0x5f, B: 0x02, A: 0xff}

	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, fmt.Errorf("chance line: %w", err)
	}
	chance.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	chance.LineStyle.Color = color.Gray{Y: 0x80}

	p.Add(roc, chance)
	p.Legend.Add(fmt.Sprintf("ROC (AUC = %.2f)", auc), roc)

	wt, err := p.WriterTo(rocSize, rocSize, "png")
	if err != nil {
		return nil, fmt.Errorf("png canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
