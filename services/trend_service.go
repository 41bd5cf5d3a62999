package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hakimbdev/NutriSnap/nutrition"

	"go.uber.org/zap"
)

// MaxTrendWindow bounds the number of days a trend report may span.
const MaxTrendWindow = 90

var ErrInvalidWindow = errors.New("invalid trend window")

// TrendService builds dashboards from stored analyses.
type TrendService struct {
	analyses      *AnalysisService
	profiles      *ProfileService
	mailer        Mailer
	defaultWindow int
	now           func() time.Time
	logger        *zap.Logger
}

func NewTrendService(analyses *AnalysisService, profiles *ProfileService, mailer Mailer, defaultWindow int, logger *zap.Logger) *TrendService {
	return &TrendService{
		analyses:      analyses,
		profiles:      profiles,
		mailer:        mailer,
		defaultWindow: defaultWindow,
		now:           time.Now,
		logger:        logger.Named("trend-service"),
	}
}

func (s *TrendService) window(w int) (int, error) {
	if w == 0 {
		w = s.defaultWindow
	}
	if w <= 0 || w > MaxTrendWindow {
		return 0, fmt.Errorf("%w: %d (1..%d)", ErrInvalidWindow, w, MaxTrendWindow)
	}
	return w, nil
}

// Trends reports the trailing window days ending today. A zero window uses
// the configured default.
func (s *TrendService) Trends(ctx context.Context, userID uint, window int) (*nutrition.TrendReport, error) {
	w, err := s.window(window)
	if err != nil {
		return nil, err
	}
	targets, err := s.profiles.Targets(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day()-(w-1), 0, 0, 0, 0, now.Location())
	history, err := s.analyses.List(ctx, userID, from, time.Time{})
	if err != nil {
		return nil, err
	}

	report := nutrition.Trends(history, targets, w, now)
	return &report, nil
}

// Progress summarises today against the user's targets.
func (s *TrendService) Progress(ctx context.Context, userID uint) (*nutrition.Progress, error) {
	targets, err := s.profiles.Targets(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	history, err := s.analyses.List(ctx, userID, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), time.Time{})
	if err != nil {
		return nil, err
	}

	p := nutrition.ProgressToday(history, targets, now)
	return &p, nil
}

// EmailTrends sends the trend report as plain text to `to`, or to the
// profile's address when `to` is empty.
func (s *TrendService) EmailTrends(ctx context.Context, userID uint, to string, window int) error {
	if to == "" {
		email, err := s.profiles.Email(ctx, userID)
		if err != nil {
			return err
		}
		to = email
	}
	if to == "" {
		return ErrNoRecipient
	}

	report, err := s.Trends(ctx, userID, window)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, to, "Your nutrition trends", FormatTrendReport(report)); err != nil {
		return err
	}

	s.logger.Info("trend report sent", zap.Uint("user_id", userID), zap.Int("days", len(report.Days)))
	return nil
}

// FormatTrendReport renders a report for email.
func FormatTrendReport(r *nutrition.TrendReport) string {
	var b strings.Builder
	if n := len(r.Days); n > 0 {
		fmt.Fprintf(&b, "Nutrition trends %s to %s\n\n",
			r.Days[0].Date.Format("2006-01-02"), r.Days[n-1].Date.Format("2006-01-02"))
	}

	meals := 0
	for _, d := range r.Days {
		meals += d.MealCount
	}
	fmt.Fprintf(&b, "Meals logged: %d\n\n", meals)

	for _, n := range r.Nutrients {
		fmt.Fprintf(&b, "%-10s avg %6.1f %-3s of %g (%3.0f%%)  %s, trending %s\n",
			n.Nutrient, n.Average, n.Unit, n.Target, n.Percent, n.Status, n.Direction)
	}
	return b.String()
}
