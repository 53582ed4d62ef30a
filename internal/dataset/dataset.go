package dataset

// DefaultSize is the number of rows the synthetic table is repeated to.
const DefaultSize = 150

type Record struct {
	Pregnancies              float64 `json:"pregnancies"`
	Glucose                  float64 `json:"glucose"`
	BloodPressure            float64 `json:"bloodPressure"`
	SkinThickness            float64 `json:"skinThickness"`
	Insulin                  float64 `json:"insulin"`
	BMI                      float64 `json:"bmi"`
	DiabetesPedigreeFunction float64 `json:"diabetesPedigreeFunction"`
	Age                      float64 `json:"age"`
	FamilyHistory            bool    `json:"familyHistory"`
	Outcome                  bool    `json:"outcome"`
}

type Dataset []Record

// Source columns. Every slice has the same length; 0 in SkinThickness,
// Insulin, BloodPressure and BMI marks a missing measurement as well as a
// real zero and is kept as-is.
var (
	pregnancies   = []float64{6, 1, 8, 1, 0, 5, 3, 10, 2, 8, 4, 10, 10, 1, 5, 7, 0, 7, 1, 1, 3, 8, 7}
	glucose       = []float64{148, 85, 183, 89, 137, 116, 78, 115, 197, 125, 110, 168, 139, 189, 166, 100, 118, 107, 103, 115, 126, 99, 196}
	bloodPressure = []float64{72, 66, 64, 66, 40, 74, 50, 0, 70, 96, 92, 74, 80, 60, 72, 0, 84, 74, 30, 70, 88, 84, 90}
	skinThickness = []float64{35, 29, 0, 23, 35, 0, 32, 0, 45, 0, 0, 0, 0, 23, 19, 0, 47, 0, 38, 30, 41, 0, 0}
	insulin       = []float64{0, 0, 0, 94, 168, 0, 88, 0, 543, 0, 0, 0, 0, 846, 175, 0, 230, 0, 83, 96, 235, 0, 0}
	bmi           = []float64{33.6, 26.6, 23.3, 28.1, 43.1, 25.6, 31.0, 35.3, 30.5, 0.0, 37.6, 38.0, 27.1, 30.1, 25.8, 30.0, 45.8, 29.6, 43.3, 34.6, 39.3, 35.4, 39.8}
	pedigree      = []float64{0.627, 0.351, 0.672, 0.167, 2.288, 0.201, 0.248, 0.134, 0.158, 0.232, 0.191, 0.537, 1.441, 0.398, 0.587, 0.484, 0.551, 0.254, 0.183, 0.529, 0.704, 0.388, 0.451}
	age           = []float64{50, 31, 32, 21, 33, 30, 26, 29, 53, 54, 30, 34, 57, 59, 51, 32, 31, 31, 33, 32, 27, 50, 41}
	familyHistory = []int{1, 0, 1, 0, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 1, 0, 1, 0, 0, 1, 0, 1, 1}
	outcome       = []int{1, 0, 1, 0, 1, 0, 1, 0, 1, 1, 0, 1, 0, 1, 1, 1, 1, 1, 0, 1, 0, 0, 1}
)

// missingAsZero lists the columns whose zeros are ambiguous.
var missingAsZero = []string{"BloodPressure", "SkinThickness", "Insulin", "BMI"}

// SourceRows is the length of the literal table Generate cycles through.
func SourceRows() int {
	return len(glucose)
}

// Generate builds a table of size rows by cycling through the literal
// columns. It is deterministic and allocation is the only side effect.
func Generate(size int) Dataset {
	if size <= 0 {
		return Dataset{}
	}

	n := SourceRows()
	ds := make(Dataset, size)
	for i := range ds {
		j := i % n
		ds[i] = Record{
			Pregnancies:              pregnancies[j],
			Glucose:                  glucose[j],
			BloodPressure:            bloodPressure[j],
			SkinThickness:            skinThickness[j],
			Insulin:                  insulin[j],
			BMI:                      bmi[j],
			DiabetesPedigreeFunction: pedigree[j],
			Age:                      age[j],
			FamilyHistory:            familyHistory[j] == 1,
			Outcome:                  outcome[j] == 1,
		}
	}
	return ds
}

// Positives counts records with a positive outcome.
func (ds Dataset) Positives() int {
	n := 0
	for _, r := range ds {
		if r.Outcome {
			n++
		}
	}
	return n
}

// ZeroPlaceholders counts, per ambiguous column, how many records carry a
// literal 0.
func (ds Dataset) ZeroPlaceholders() map[string]int {
	counts := make(map[string]int, len(missingAsZero))
	for _, name := range missingAsZero {
		counts[name] = 0
	}
	for _, r := range ds {
		if r.BloodPressure == 0 {
			counts["BloodPressure"]++
		}
		if r.SkinThickness == 0 {
			counts["SkinThickness"]++
		}
		if r.Insulin == 0 {
			counts["Insulin"]++
		}
		if r.BMI == 0 {
			counts["BMI"]++
		}
	}
	return counts
}
