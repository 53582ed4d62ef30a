package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Skufu/GlucoRisk/internal/risk"
)

// Predictor is what the HTTP layer needs from the trained pipeline.
type Predictor interface {
	Assess(risk.Input) risk.Assessment
	Summary() risk.Summary
	ROCImage() []byte
}

// Checkbox is a bool that also accepts the "on" an HTML checkbox submits.
type Checkbox bool

func (c *Checkbox) UnmarshalParam(param string) error {
	if strings.EqualFold(param, "on") {
		*c = true
		return nil
	}
	v, err := strconv.ParseBool(param)
	if err != nil {
		return fmt.Errorf("familyHistory: %w", err)
	}
	*c = Checkbox(v)
	return nil
}

// PredictRequest leaves fields nil when the form omits them so the form
// defaults can be applied. An unchecked checkbox is simply absent.
type PredictRequest struct {
	Glucose       *float64 `json:"glucose" form:"glucose" binding:"omitempty,finite,gte=0"`
	BloodPressure *float64 `json:"bloodPressure" form:"bloodPressure" binding:"omitempty,finite,gte=0"`
	BMI           *float64 `json:"bmi" form:"bmi" binding:"omitempty,finite,gte=0"`
	Age           *float64 `json:"age" form:"age" binding:"omitempty,finite,gte=0"`
	FamilyHistory Checkbox `json:"familyHistory" form:"familyHistory"`
}

func (r PredictRequest) input() risk.Input {
	in := risk.DefaultInput()
	if r.Glucose != nil {
		in.Glucose = *r.Glucose
	}
	if r.BloodPressure != nil {
		in.BloodPressure = *r.BloodPressure
	}
	if r.BMI != nil {
		in.BMI = *r.BMI
	}
	if r.Age != nil {
		in.Age = *r.Age
	}
	in.FamilyHistory = bool(r.FamilyHistory)
	return in
}

type PredictResponse struct {
	Probability    float64 `json:"probability"`
	Prediction     string  `json:"prediction"`
	Recommendation string  `json:"recommendation"`
	ClinicalCodes  string  `json:"clinicalCodes"`
}

var fieldLabels = map[string]string{
	"Glucose":       "glucose",
	"BloodPressure": "blood pressure",
	"BMI":           "BMI",
	"Age":           "age",
}

func setupRouter(svc Predictor, db HealthChecker, staticRoot string, logger *zap.Logger) *gin.Engine {
	registerValidators(logger)

	router := gin.New()
	router.Use(
		requestLogger(logger),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.Static("/static", staticRoot)
	router.StaticFile("/", filepath.Join(staticRoot, "index.html"))
	router.StaticFile("/styles.css", filepath.Join(staticRoot, "styles.css"))
	router.StaticFile("/app.js", filepath.Join(staticRoot, "app.js"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	})

	api := router.Group("/api")
	api.POST("/predict", predictHandler(svc, logger))

	api.GET("/model", func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Summary())
	})

	api.GET("/roc.png", func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, "image/png", svc.ROCImage())
	})

	api.GET("/clinical-codes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"codes": risk.ClinicalCodes()})
	})

	return router
}

func predictHandler(svc Predictor, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PredictRequest
		if err := c.ShouldBind(&req); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":   "validation_failed",
					"details": validationDetails(verrs),
				})
				return
			}
			logger.Debug("invalid predict payload", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		a := svc.Assess(req.input())
		c.JSON(http.StatusOK, PredictResponse{
			Probability:    a.Probability,
			Prediction:     a.Prediction,
			Recommendation: a.Recommendation,
			ClinicalCodes:  a.ClinicalCodes,
		})
	}
}

// registerValidators adds the "finite" tag to gin's validator; gte alone lets
// +Inf through since strconv parses "Inf".
func registerValidators(logger *zap.Logger) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		logger.Warn("binding validator is not go-playground/validator, finite check disabled")
		return
	}
	if err := v.RegisterValidation("finite", finiteNumber); err != nil {
		logger.Error("register finite validator", zap.Error(err))
	}
}

func finiteNumber(fl validator.FieldLevel) bool {
	f := fl.Field()
	if !f.CanFloat() {
		return true
	}
	x := f.Float()
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

func validationDetails(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "finite":
			out = append(out, fmt.Sprintf("%s must be a finite number", label))
		case "gte":
			out = append(out, fmt.Sprintf("%s must be at least %s", label, fe.Param()))
		default:
			out = append(out, fmt.Sprintf("%s is invalid (%s)", label, fe.Tag()))
		}
	}
	return out
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
