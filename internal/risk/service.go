package risk

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Skufu/GlucoRisk/internal/dataset"
	"github.com/Skufu/GlucoRisk/internal/evaluation"
	"github.com/Skufu/GlucoRisk/internal/model"
)

type Settings struct {
	DatasetSize   int
	TrainFraction float64
	SplitSeed     uint64
}

func DefaultSettings() Settings {
	return Settings{
		DatasetSize:   dataset.DefaultSize,
		TrainFraction: 0.7,
		SplitSeed:     42,
	}
}

// Summary describes how the served model was built.
type Summary struct {
	DatasetSize      int                 `json:"datasetSize"`
	TrainSize        int                 `json:"trainSize"`
	TestSize         int                 `json:"testSize"`
	Iterations       int                 `json:"iterations"`
	Coefficients     []model.Coefficient `json:"coefficients"`
	ZeroPlaceholders map[string]int      `json:"zeroPlaceholders"`
	Evaluation       evaluation.Report   `json:"evaluation"`
}

// Service is built once at startup and only read afterwards.
type Service struct {
	*Assessor
	summary Summary
	roc     []byte
}

// NewService generates the dataset, splits it, fits the model and evaluates
// it on the held-out part. Any failure is returned; there is no fallback
// model.
func NewService(s Settings, logger *zap.Logger) (*Service, error) {
	ds := dataset.Generate(s.DatasetSize)
	zeros := ds.ZeroPlaceholders()
	for col, n := range zeros {
		if n > 0 {
			logger.Warn("zero used as missing value, not imputed",
				zap.String("column", col), zap.Int("rows", n))
		}
	}

	train, test, err := dataset.StratifiedSplit(ds, s.TrainFraction, s.SplitSeed)
	if err != nil {
		return nil, fmt.Errorf("split dataset: %w", err)
	}
	logger.Info("dataset split",
		zap.Int("rows", len(ds)),
		zap.Int("train", len(train)),
		zap.Int("test", len(test)),
		zap.Uint64("seed", s.SplitSeed))

	m, err := model.Train(train)
	if err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}
	coefs := m.Coefficients()
	fields := []zap.Field{zap.Int("iterations", m.Iterations())}
	for _, c := range coefs {
		fields = append(fields, zap.Float64(c.Name, c.Value))
	}
	logger.Info("model trained", fields...)

	report, err := evaluation.Evaluate(m, test)
	if err != nil {
		return nil, fmt.Errorf("evaluate model: %w", err)
	}
	cm := report.Confusion
	logger.Info("model evaluated",
		zap.Int("tp", cm.TruePositives),
		zap.Int("fp", cm.FalsePositives),
		zap.Int("tn", cm.TrueNegatives),
		zap.Int("fn", cm.FalseNegatives),
		zap.Float64("accuracy", report.Accuracy),
		zap.Float64("auc", report.AUC))

	roc, err := evaluation.RenderROC(report.ROC, report.AUC)
	if err != nil {
		return nil, fmt.Errorf("render roc: %w", err)
	}

	return &Service{
		Assessor: NewAssessor(m),
		summary: Summary{
			DatasetSize:      len(ds),
			TrainSize:        len(train),
			TestSize:         len(test),
			Iterations:       m.Iterations(),
			Coefficients:     coefs,
			ZeroPlaceholders: zeros,
			Evaluation:       report,
		},
		roc: roc,
	}, nil
}

func (s *Service) Summary() Summary {
	return s.summary
}

func (s *Service) Report() evaluation.Report {
	return s.summary.Evaluation
}

// ROCImage returns the PNG rendered from the test split.
func (s *Service) ROCImage() []byte {
	return s.roc
}
