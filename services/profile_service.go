package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hakimbdev/NutriSnap/models"
	"github.com/hakimbdev/NutriSnap/nutrition"
	"github.com/hakimbdev/NutriSnap/utils"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProfileInput struct {
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	Age       int      `json:"age"`
	Sex       string   `json:"sex" binding:"required"`
	Lifestyle string   `json:"lifestyle" binding:"required"`
	Weight    *float64 `json:"weight"`
	Height    *float64 `json:"height"`
}

type ProfileView struct {
	UserID      uint     `json:"user_id"`
	Email       string   `json:"email,omitempty"`
	FullName    string   `json:"full_name,omitempty"`
	Age         int      `json:"age"`
	Sex         string   `json:"sex"`
	Lifestyle   string   `json:"lifestyle"`
	Weight      *float64 `json:"weight,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	BMI         *float64 `json:"bmi,omitempty"`
	BMICategory string   `json:"bmi_category,omitempty"`
}

// TargetsProvider resolves a user's daily targets.
type TargetsProvider interface {
	Targets(ctx context.Context, userID uint) (nutrition.DailyTargets, error)
}

// ProfileService stores personal profiles and serves the daily targets
// derived from them through a TTL cache.
type ProfileService struct {
	db      *gorm.DB
	targets *cache.Cache
	logger  *zap.Logger
}

func NewProfileService(db *gorm.DB, ttl time.Duration, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		db:      db,
		targets: cache.New(ttl, 2*ttl),
		logger:  logger.Named("profile-service"),
	}
}

func (s *ProfileService) find(ctx context.Context, userID uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*ProfileView, error) {
	u, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileView(u), nil
}

// UpsertProfile validates in and stores it as userID's profile.
func (s *ProfileService) UpsertProfile(ctx context.Context, userID uint, in ProfileInput) (*ProfileView, error) {
	p := nutrition.UserProfile{
		Age:       in.Age,
		Sex:       nutrition.Sex(in.Sex),
		Lifestyle: nutrition.Lifestyle(in.Lifestyle),
		Weight:    in.Weight,
		Height:    in.Height,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	u, err := s.find(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		u = &models.User{}
		u.ID = userID
	case err != nil:
		return nil, err
	}

	u.Email = in.Email
	u.FullName = in.FullName
	u.Age = in.Age
	u.Sex = in.Sex
	u.Lifestyle = in.Lifestyle
	u.Weight = in.Weight
	u.Height = in.Height
	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.targets.Delete(cacheKey(userID))
	s.logger.Info("profile updated", zap.Uint("user_id", userID), zap.String("lifestyle", in.Lifestyle))
	return profileView(u), nil
}

// Email returns the stored email of userID, empty when unset.
func (s *ProfileService) Email(ctx context.Context, userID uint) (string, error) {
	u, err := s.find(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Email, nil
}

// Targets computes userID's daily targets from the stored profile.
func (s *ProfileService) Targets(ctx context.Context, userID uint) (nutrition.DailyTargets, error) {
	key := cacheKey(userID)
	if v, ok := s.targets.Get(key); ok {
		return v.(nutrition.DailyTargets), nil
	}

	u, err := s.find(ctx, userID)
	if err != nil {
		return nutrition.DailyTargets{}, err
	}
	t, err := nutrition.ComputeTargets(userProfile(u))
	if err != nil {
		return nutrition.DailyTargets{}, err
	}

	s.targets.Set(key, t, cache.DefaultExpiration)
	return t, nil
}

func userProfile(u *models.User) nutrition.UserProfile {
	return nutrition.UserProfile{
		Age:       u.Age,
		Sex:       nutrition.Sex(u.Sex),
		Lifestyle: nutrition.Lifestyle(u.Lifestyle),
		Weight:    u.Weight,
		Height:    u.Height,
	}
}

func profileView(u *models.User) *ProfileView {
	v := &ProfileView{
		UserID:    u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Age:       u.Age,
		Sex:       u.Sex,
		Lifestyle: u.Lifestyle,
		Weight:    u.Weight,
		Height:    u.Height,
	}
	if u.Weight != nil && u.Height != nil {
		if bmi, err := utils.CalculateBMI(*u.Height, *u.Weight); err == nil {
			v.BMI = &bmi
			v.BMICategory = utils.BMICategory(bmi)
		}
	}
	return v
}

func cacheKey(userID uint) string { return strconv.FormatUint(uint64(userID), 10) }
