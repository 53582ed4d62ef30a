package risk

import (
	"fmt"
	"strings"

	"github.com/Skufu/GlucoRisk/internal/model"
)

const (
	HighRiskRecommendation = "High risk of diabetes. Please consult a healthcare provider for further testing and a personalised care plan."
	LowRiskRecommendation  = "Low risk of diabetes. Keep up a balanced diet, regular physical activity and routine check-ups."
	NoClinicalCodes        = "No relevant clinical codes."
)

type ClinicalCode struct {
	Symptom string `json:"symptom"`
	ICD10   string `json:"icd10"`
}

// clinicalCodes is read-only; ClinicalCodes hands out copies.
var clinicalCodes = []ClinicalCode{
	{Symptom: "Polyuria", ICD10: "R35.8"},
	{Symptom: "Polydipsia", ICD10: "R63.1"},
	{Symptom: "Hyperglycemia", ICD10: "R73.9"},
}

func ClinicalCodes() []ClinicalCode {
	return append([]ClinicalCode(nil), clinicalCodes...)
}

// Input is one patient as entered on the form.
type Input struct {
	Glucose       float64 `json:"glucose" form:"glucose"`
	BloodPressure float64 `json:"bloodPressure" form:"bloodPressure"`
	BMI           float64 `json:"bmi" form:"bmi"`
	Age           float64 `json:"age" form:"age"`
	FamilyHistory bool    `json:"familyHistory" form:"familyHistory"`
}

// DefaultInput mirrors the form's initial values.
func DefaultInput() Input {
	return Input{
		Glucose:       100,
		BloodPressure: 70,
		BMI:           25,
		Age:           30,
	}
}

func (in Input) features() model.Features {
	return model.Features{
		Glucose:       in.Glucose,
		BloodPressure: in.BloodPressure,
		BMI:           in.BMI,
		Age:           in.Age,
		FamilyHistory: in.FamilyHistory,
	}
}

type Assessment struct {
	Probability     float64 `json:"probability"`
	ProbabilityText string  `json:"probabilityText"`
	Prediction      string  `json:"prediction"`
	Recommendation  string  `json:"recommendation"`
	ClinicalCodes   string  `json:"clinicalCodes"`
}

type Scorer interface {
	PredictProbability(model.Features) float64
}

// Assessor turns a fitted model into form outputs. It holds no state of its
// own, so calls with equal inputs return equal assessments.
type Assessor struct {
	model Scorer
}

func NewAssessor(m Scorer) *Assessor {
	return &Assessor{model: m}
}

func (a *Assessor) Assess(in Input) Assessment {
	p := a.model.PredictProbability(in.features())
	pct := FormatProbability(p)
	return Assessment{
		Probability:     p,
		ProbabilityText: pct,
		Prediction:      fmt.Sprintf("Predicted diabetes risk: %s", pct),
		Recommendation:  Recommendation(p),
		ClinicalCodes:   ClinicalCodesText(in.FamilyHistory),
	}
}

func FormatProbability(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

// Recommendation is the high-risk text only when p is strictly above 0.5.
func Recommendation(p float64) string {
	if p > 0.5 {
		return HighRiskRecommendation
	}
	return LowRiskRecommendation
}

// ClinicalCodesText ignores the probability: only family history decides.
func ClinicalCodesText(familyHistory bool) string {
	if !familyHistory {
		return NoClinicalCodes
	}
	parts := make([]string, len(clinicalCodes))
	for i, c := range clinicalCodes {
		parts[i] = fmt.Sprintf("%s: %s", c.Symptom, c.ICD10)
	}
	return "ICD-10 codes: " + strings.Join(parts, ", ")
}
