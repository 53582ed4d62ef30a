package evaluation

import (
	"errors"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/Skufu/GlucoRisk/internal/dataset"
	"github.com/Skufu/GlucoRisk/internal/model"
)

var ErrOneClass = errors.New("evaluation set needs both outcome classes")

// Scorer is the part of a fitted model the evaluator needs.
type Scorer interface {
	PredictProbability(model.Features) float64
	Predict(model.Features) bool
}

type ConfusionMatrix struct {
	TruePositives  int `json:"truePositives"`
	FalsePositives int `json:"falsePositives"`
	TrueNegatives  int `json:"trueNegatives"`
	FalseNegatives int `json:"falseNegatives"`
}

func (c ConfusionMatrix) Total() int {
	return c.TruePositives + c.FalsePositives + c.TrueNegatives + c.FalseNegatives
}

func (c ConfusionMatrix) Accuracy() float64 {
	return ratio(c.TruePositives+c.TrueNegatives, c.Total())
}

func (c ConfusionMatrix) Precision() float64 {
	return ratio(c.TruePositives, c.TruePositives+c.FalsePositives)
}

// Recall is the true positive rate.
func (c ConfusionMatrix) Recall() float64 {
	return ratio(c.TruePositives, c.TruePositives+c.FalseNegatives)
}

func (c ConfusionMatrix) Specificity() float64 {
	return ratio(c.TrueNegatives, c.TrueNegatives+c.FalsePositives)
}

// Curve holds ROC points ordered by increasing false positive rate, from
// (0,0) to (1,1).
type Curve struct {
	FPR        []float64 `json:"fpr"`
	TPR        []float64 `json:"tpr"`
	Thresholds []float64 `json:"-"`
}

type Report struct {
	Confusion   ConfusionMatrix `json:"confusion"`
	Accuracy    float64         `json:"accuracy"`
	Precision   float64         `json:"precision"`
	Recall      float64         `json:"recall"`
	Specificity float64         `json:"specificity"`
	ROC         Curve           `json:"roc"`
	AUC         float64         `json:"auc"`
}

// Evaluate scores every record in test and summarizes the result. The
// confusion matrix uses the scorer's own class prediction.
func Evaluate(m Scorer, test dataset.Dataset) (Report, error) {
	pos := test.Positives()
	if pos == 0 || pos == len(test) {
		return Report{}, ErrOneClass
	}

	scores := make([]float64, len(test))
	labels := make([]bool, len(test))
	var cm ConfusionMatrix
	for i, r := range test {
		f := model.FeaturesOf(r)
		scores[i] = m.PredictProbability(f)
		labels[i] = r.Outcome
		switch predicted := m.Predict(f); {
		case predicted && r.Outcome:
			cm.TruePositives++
		case predicted && !r.Outcome:
			cm.FalsePositives++
		case !predicted && r.Outcome:
			cm.FalseNegatives++
		default:
			cm.TrueNegatives++
		}
	}

	stat.SortWeightedLabeled(scores, labels, nil)
	tpr, fpr, thresh := stat.ROC(nil, scores, labels, nil)

	return Report{
		Confusion:   cm,
		Accuracy:    cm.Accuracy(),
		Precision:   cm.Precision(),
		Recall:      cm.Recall(),
		Specificity: cm.Specificity(),
		ROC:         Curve{FPR: fpr, TPR: tpr, Thresholds: thresh},
		AUC:         integrate.Trapezoidal(fpr, tpr),
	}, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
