package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Skufu/GlucoRisk/internal/dataset"
)

const (
	maxIterations = 25
	tolerance     = 1e-8
)

var (
	ErrSingleClass  = errors.New("training set has a single outcome class")
	ErrNotConverged = errors.New("logistic regression did not converge")
)

// FeatureNames lists the predictors in coefficient order, after the intercept.
var FeatureNames = []string{"Glucose", "BloodPressure", "BMI", "Age", "FamilyHistory"}

// Features is the subset of a record the model is fit on.
type Features struct {
	Glucose       float64 `json:"glucose"`
	BloodPressure float64 `json:"bloodPressure"`
	BMI           float64 `json:"bmi"`
	Age           float64 `json:"age"`
	FamilyHistory bool    `json:"familyHistory"`
}

func FeaturesOf(r dataset.Record) Features {
	return Features{
		Glucose:       r.Glucose,
		BloodPressure: r.BloodPressure,
		BMI:           r.BMI,
		Age:           r.Age,
		FamilyHistory: r.FamilyHistory,
	}
}

// design returns the design-matrix row, intercept first.
func (f Features) design() []float64 {
	fh := 0.0
	if f.FamilyHistory {
		fh = 1
	}
	return []float64{1, f.Glucose, f.BloodPressure, f.BMI, f.Age, fh}
}

type Coefficient struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Logistic is a fitted binomial-logit model. It is never modified after
// Train returns.
type Logistic struct {
	beta       []float64
	iterations int
}

// Train fits the model on ds with iteratively reweighted least squares.
func Train(ds dataset.Dataset) (*Logistic, error) {
	n := len(ds)
	if n == 0 {
		return nil, dataset.ErrEmptyDataset
	}
	if pos := ds.Positives(); pos == 0 || pos == n {
		return nil, ErrSingleClass
	}

	k := len(FeatureNames) + 1
	x := mat.NewDense(n, k, nil)
	y := make([]float64, n)
	for i, r := range ds {
		x.SetRow(i, FeaturesOf(r).design())
		if r.Outcome {
			y[i] = 1
		}
	}

	beta := mat.NewVecDense(k, nil)
	eta := mat.NewVecDense(n, nil)
	weighted := mat.NewDense(n, k, nil)
	grad := mat.NewVecDense(k, nil)
	resid := mat.NewVecDense(n, nil)
	var hess mat.Dense
	var delta mat.VecDense

	for iter := 1; iter <= maxIterations; iter++ {
		eta.MulVec(x, beta)
		for i := 0; i < n; i++ {
			p := sigmoid(eta.AtVec(i))
			w := p * (1 - p)
			resid.SetVec(i, y[i]-p)
			for j := 0; j < k; j++ {
				weighted.Set(i, j, w*x.At(i, j))
			}
		}

		hess.Mul(x.T(), weighted)
		grad.MulVec(x.T(), resid)
		if err := delta.SolveVec(&hess, grad); err != nil {
			return nil, fmt.Errorf("%w: iteration %d: %v", ErrNotConverged, iter, err)
		}
		beta.AddVec(beta, &delta)

		step := 0.0
		for j := 0; j < k; j++ {
			b := beta.AtVec(j)
			if math.IsNaN(b) || math.IsInf(b, 0) {
				return nil, fmt.Errorf("%w: iteration %d: non-finite coefficient %s", ErrNotConverged, iter, coefficientName(j))
			}
			step = math.Max(step, math.Abs(delta.AtVec(j)))
		}
		if step < tolerance {
			return &Logistic{beta: mat.Col(nil, 0, beta), iterations: iter}, nil
		}
	}

	return nil, fmt.Errorf("%w after %d iterations", ErrNotConverged, maxIterations)
}

// New builds a model from known coefficients, intercept first.
func New(intercept float64, coefficients ...float64) (*Logistic, error) {
	if len(coefficients) != len(FeatureNames) {
		return nil, fmt.Errorf("expected %d coefficients, got %d", len(FeatureNames), len(coefficients))
	}
	beta := append([]float64{intercept}, coefficients...)
	return &Logistic{beta: beta}, nil
}

func (m *Logistic) PredictProbability(f Features) float64 {
	z := 0.0
	for j, v := range f.design() {
		z += m.beta[j] * v
	}
	// Opposite-sign infinite terms sum to NaN.
	if math.IsNaN(z) {
		return 0.5
	}
	return sigmoid(z)
}

// Predict reports the positive class when the probability exceeds 0.5.
func (m *Logistic) Predict(f Features) bool {
	return m.PredictProbability(f) > 0.5
}

func (m *Logistic) Coefficients() []Coefficient {
	out := make([]Coefficient, len(m.beta))
	for j, b := range m.beta {
		out[j] = Coefficient{Name: coefficientName(j), Value: b}
	}
	return out
}

// Iterations is the number of IRLS steps Train needed; 0 for models built
// with New.
func (m *Logistic) Iterations() int {
	return m.iterations
}

func coefficientName(j int) string {
	if j == 0 {
		return "Intercept"
	}
	return FeatureNames[j-1]
}

// sigmoid is split by sign so large |z| cannot overflow math.Exp.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
