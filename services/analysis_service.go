package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hakimbdev/NutriSnap/metrics"
	"github.com/hakimbdev/NutriSnap/models"
	"github.com/hakimbdev/NutriSnap/nutrition"
	"github.com/hakimbdev/NutriSnap/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	SourceImage      = "image"
	SourceRecognized = "recognized"
)

// AnalysisDeps are the collaborators of AnalysisService. Images, Alerts,
// Realtime and Metrics are optional.
type AnalysisDeps struct {
	DB         *gorm.DB
	Analyzer   *nutrition.Analyzer
	Recognizer Recognizer
	Images     ImageStore
	Targets    TargetsProvider
	Alerts     *AlertBus
	Realtime   *RealtimeHub
	Metrics    *metrics.AnalysisMetrics

	LowScoreThreshold int
	Now               func() time.Time
}

// AnalysisService turns meal photos into stored analyses.
type AnalysisService struct {
	AnalysisDeps
	logger *zap.Logger
}

func NewAnalysisService(deps AnalysisDeps, logger *zap.Logger) *AnalysisService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &AnalysisService{AnalysisDeps: deps, logger: logger.Named("analysis-service")}
}

// AnalyzeImage stores the photo, recognizes it and records the analysis.
func (s *AnalysisService) AnalyzeImage(ctx context.Context, userID uint, dataURI, mealType string) (*nutrition.AnalysisResult, error) {
	image, contentType, err := utils.DecodeDataURI(dataURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	targets, err := s.Targets.Targets(ctx, userID)
	if err != nil {
		return nil, err
	}

	meta := nutrition.Meta{ID: uuid.NewString(), Timestamp: s.Now(), MealType: mealType}
	if s.Images != nil {
		key := fmt.Sprintf("meals/%d/%s%s", userID, meta.ID, utils.ExtensionFor(contentType))
		if meta.ImageURL, err = s.Images.Put(ctx, key, image, contentType); err != nil {
			return nil, err
		}
	}

	out, err := s.Recognizer.Recognize(ctx, image)
	if err != nil {
		s.Metrics.RecordRecognitionFailure()
		s.logger.Warn("recognition failed", zap.Uint("user_id", userID), zap.String("analysis_id", meta.ID), zap.Error(err))
		if !errors.Is(err, ErrRecognitionFailed) {
			err = fmt.Errorf("%w: %v", ErrRecognitionFailed, err)
		}
		return nil, err
	}

	return s.record(ctx, userID, out, targets, meta, SourceImage)
}

// AnalyzeRecognized records an analysis for output the caller already
// recognized, skipping upload and recognition.
func (s *AnalysisService) AnalyzeRecognized(ctx context.Context, userID uint, out nutrition.RecognitionOutput, imageURL, mealType string) (*nutrition.AnalysisResult, error) {
	targets, err := s.Targets.Targets(ctx, userID)
	if err != nil {
		return nil, err
	}
	meta := nutrition.Meta{ID: uuid.NewString(), Timestamp: s.Now(), ImageURL: imageURL, MealType: mealType}
	return s.record(ctx, userID, out, targets, meta, SourceRecognized)
}

func (s *AnalysisService) record(ctx context.Context, userID uint, out nutrition.RecognitionOutput, targets nutrition.DailyTargets, meta nutrition.Meta, source string) (*nutrition.AnalysisResult, error) {
	res := s.Analyzer.Analyze(out, targets, meta)

	if err := s.DB.WithContext(ctx).Create(toModel(userID, res)).Error; err != nil {
		return nil, fmt.Errorf("store analysis: %w", err)
	}

	s.Metrics.RecordAnalysis(source, res.BalancedPlateScore, res.Deficiencies, len(res.Unresolved))
	s.logger.Info("analysis recorded",
		zap.Uint("user_id", userID),
		zap.String("analysis_id", res.ID),
		zap.Int("items", len(res.Items)),
		zap.Int("score", res.BalancedPlateScore),
		zap.Strings("unresolved", res.Unresolved),
	)

	if s.Realtime != nil {
		s.Realtime.Broadcast(userID, "analysis.created", res)
	}
	if s.Alerts != nil {
		if typ, msg, ok := AlertFor(res, s.LowScoreThreshold); ok {
			s.Alerts.Emit(ctx, userID, res.ID, typ, msg)
		}
	}
	return &res, nil
}

// List returns userID's analyses newest first, optionally bounded by
// [from, to). Zero times leave that side open.
func (s *AnalysisService) List(ctx context.Context, userID uint, from, to time.Time) ([]nutrition.AnalysisResult, error) {
	q := s.DB.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("taken_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("taken_at < ?", to)
	}

	var rows []models.Analysis
	if err := q.Order("taken_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]nutrition.AnalysisResult, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out, nil
}

func (s *AnalysisService) Get(ctx context.Context, userID uint, id string) (*nutrition.AnalysisResult, error) {
	var row models.Analysis
	err := s.DB.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	res := fromModel(&row)
	return &res, nil
}

func (s *AnalysisService) Delete(ctx context.Context, userID uint, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Analysis
		if err := tx.Select("id").Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("analysis_id = ?", id).Delete(&models.AnalysisItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
}

func toModel(userID uint, res nutrition.AnalysisResult) *models.Analysis {
	row := &models.Analysis{
		ID:                 res.ID,
		UserID:             userID,
		TakenAt:            res.Timestamp,
		ImageURL:           res.ImageURL,
		MealType:           res.MealType,
		Calories:           res.Calories,
		BalancedPlateScore: res.BalancedPlateScore,
		Nutrients:          res.Nutrients,
		Deficiencies:       res.Deficiencies,
		Suggestions:        res.Suggestions,
		Report:             res.Report,
		Unresolved:         res.Unresolved,
	}
	for i, it := range res.Items {
		row.Items = append(row.Items, models.AnalysisItem{
			AnalysisID: res.ID,
			Position:   i,
			Food:       it.Name,
			Label:      it.Label,
			Confidence: it.Confidence,
			BoxArea:    it.BoxArea,
			Portion:    it.Portion,
			Calories:   it.Nutrients.Calories,
			Nutrients:  it.Nutrients,
		})
	}
	return row
}

func fromModel(row *models.Analysis) nutrition.AnalysisResult {
	res := nutrition.AnalysisResult{
		ID:                 row.ID,
		Timestamp:          row.TakenAt,
		ImageURL:           row.ImageURL,
		MealType:           row.MealType,
		Calories:           row.Calories,
		BalancedPlateScore: row.BalancedPlateScore,
		Nutrients:          row.Nutrients,
		Deficiencies:       row.Deficiencies,
		Suggestions:        row.Suggestions,
		Report:             row.Report,
		Unresolved:         row.Unresolved,
		Items:              make([]nutrition.EstimatedItem, 0, len(row.Items)),
	}
	for _, it := range row.Items {
		res.Items = append(res.Items, nutrition.EstimatedItem{
			DetectedFood: nutrition.DetectedFood{
				Label:      it.Label,
				Confidence: it.Confidence,
				Name:       it.Food,
				BoxArea:    it.BoxArea,
			},
			Portion:      it.Portion,
			PortionLabel: nutrition.FormatPortion(it.Portion),
			Nutrients:    it.Nutrients,
		})
	}
	return res
}
