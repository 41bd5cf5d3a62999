package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hakimbdev/NutriSnap/models"
	"github.com/hakimbdev/NutriSnap/nutrition"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	AlertWarning = "warning"
	AlertInfo    = "info"
)

// Notifier delivers a push notification to a user's devices.
type Notifier interface {
	PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string) error
}

// AlertBus persists alerts and fans them out over websocket and push.
type AlertBus struct {
	db     *gorm.DB
	rt     *RealtimeHub
	push   Notifier
	logger *zap.Logger
}

// NewAlertBus wires the alert sinks. rt and push may be nil.
func NewAlertBus(db *gorm.DB, rt *RealtimeHub, push Notifier, logger *zap.Logger) *AlertBus {
	return &AlertBus{db: db, rt: rt, push: push, logger: logger.Named("alerts")}
}

// AlertFor decides whether an analysis warrants an alert: a warning below
// threshold, otherwise info when anything is deficient.
func AlertFor(res nutrition.AnalysisResult, threshold int) (typ, message string, ok bool) {
	low := strings.Join(res.Deficiencies, ", ")
	switch {
	case res.BalancedPlateScore < threshold:
		message = fmt.Sprintf("Balanced plate score %d is below %d", res.BalancedPlateScore, threshold)
		if low != "" {
			message += ". Low in " + low
		}
		return AlertWarning, message, true
	case low != "":
		return AlertInfo, "Low in " + low, true
	}
	return "", "", false
}

// Emit stores the alert and delivers it. Delivery failures are logged and
// never returned.
func (b *AlertBus) Emit(ctx context.Context, userID uint, analysisID, typ, message string) *models.Alert {
	a := &models.Alert{UserID: userID, AnalysisID: analysisID, Type: typ, Message: message, CreatedAt: time.Now()}
	if err := b.db.WithContext(ctx).Create(a).Error; err != nil {
		b.logger.Error("failed to store alert", zap.Uint("user_id", userID), zap.Error(err))
	}

	if b.rt != nil {
		b.rt.Broadcast(userID, "alert.created", a)
	}
	if b.push != nil {
		err := b.push.PushToUser(ctx, userID, "New Alert", message, map[string]string{
			"type": typ, "alertId": fmt.Sprintf("%d", a.ID), "analysisId": analysisID,
		})
		if err != nil {
			b.logger.Warn("failed to push alert", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return a
}

// List returns the newest alerts of userID first.
func (b *AlertBus) List(ctx context.Context, userID uint, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.Alert
	err := b.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
