package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hakimbdev/NutriSnap/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	CreatePlatformEndpoint(ctx context.Context, in *awssns.CreatePlatformEndpointInput, optFns ...func(*awssns.Options)) (*awssns.CreatePlatformEndpointOutput, error)
	Publish(ctx context.Context, in *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

type PushService struct {
	db             *gorm.DB
	sns            SNSAPI
	fcmPlatformArn string
	logger         *zap.Logger
}

func NewPushService(db *gorm.DB, client SNSAPI, fcmPlatformArn string, logger *zap.Logger) *PushService {
	return &PushService{
		db:             db,
		sns:            client,
		fcmPlatformArn: fcmPlatformArn,
		logger:         logger.Named("push"),
	}
}

type RegisterDeviceReq struct {
	Platform string `json:"platform" binding:"required"` // "android" | "ios"
	Token    string `json:"token" binding:"required"`
}

func tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

func (p *PushService) platformArn(platform string) (string, error) {
	switch strings.ToLower(platform) {
	case "android", "ios":
		if p.fcmPlatformArn == "" {
			return "", errors.New("SNS_FCM_ARN not set")
		}
		return p.fcmPlatformArn, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
}

// RegisterDevice creates an SNS endpoint for token and stores it. Registering
// the same token again refreshes the stored endpoint.
func (p *PushService) RegisterDevice(ctx context.Context, userID uint, platform, token string) (*models.UserDevice, error) {
	appArn, err := p.platformArn(platform)
	if err != nil {
		return nil, err
	}

	out, err := p.sns.CreatePlatformEndpoint(ctx, &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(appArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, fmt.Errorf("create platform endpoint: %w", err)
	}

	hash := tokenHash(token)
	var dev models.UserDevice
	err = p.db.WithContext(ctx).Where("user_id = ? AND token_hash = ?", userID, hash).First(&dev).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		dev = models.UserDevice{UserID: userID, TokenHash: hash, Enabled: true}
	default:
		return nil, err
	}

	dev.Platform = strings.ToLower(platform)
	dev.EndpointARN = aws.ToString(out.EndpointArn)
	dev.UpdatedAt = time.Now()
	if err := p.db.WithContext(ctx).Save(&dev).Error; err != nil {
		return nil, err
	}

	p.logger.Info("device registered", zap.Uint("user_id", userID), zap.String("platform", dev.Platform))
	return &dev, nil
}

// SetEnabled toggles notifications for every device of userID.
func (p *PushService) SetEnabled(ctx context.Context, userID uint, enabled bool) error {
	return p.db.WithContext(ctx).Model(&models.UserDevice{}).
		Where("user_id = ?", userID).
		Update("enabled", enabled).Error
}

// PushToUser publishes a notification to every enabled device of userID and
// returns the first publish error after trying them all.
func (p *PushService) PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string) error {
	var endpoints []models.UserDevice
	if err := p.db.WithContext(ctx).Where("user_id = ? AND enabled = ?", userID, true).Find(&endpoints).Error; err != nil {
		return err
	}
	if len(endpoints) == 0 {
		return nil
	}

	gcm, err := json.Marshal(map[string]any{
		"notification": map[string]string{"title": title, "body": body},
		"data":         data,
	})
	if err != nil {
		return err
	}
	raw, err := json.Marshal(map[string]string{"default": body, "GCM": string(gcm)})
	if err != nil {
		return err
	}

	var firstErr error
	for _, d := range endpoints {
		_, err := p.sns.Publish(ctx, &awssns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(string(raw)),
			TargetArn:        aws.String(d.EndpointARN),
		})
		if err != nil {
			p.logger.Warn("push failed", zap.Uint("user_id", userID), zap.Uint("device_id", d.ID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
