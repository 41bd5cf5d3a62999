package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hakimbdev/NutriSnap/nutrition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrendFixture(t *testing.T) (*analysisFixture, *TrendService, *fakeMailer) {
	t.Helper()
	f := newAnalysisFixture(t)
	mailer := &fakeMailer{}
	profiles := NewProfileService(f.db, time.Minute, nop)
	ts := NewTrendService(f.svc, profiles, mailer, nutrition.DefaultTrendWindow, nop)
	ts.now = fixedClock(testNow)
	return f, ts, mailer
}

func TestTrendService_Trends(t *testing.T) {
	f, ts, _ := newTrendFixture(t)
	ctx := context.Background()

	for _, daysAgo := range []int{0, 0, 3, 10} {
		f.svc.Now = fixedClock(testNow.AddDate(0, 0, -daysAgo))
		_, err := f.svc.AnalyzeRecognized(ctx, 7, lunch, "", "")
		require.NoError(t, err)
	}

	report, err := ts.Trends(ctx, 7, 0)
	require.NoError(t, err)
	require.Len(t, report.Days, nutrition.DefaultTrendWindow)
	assert.Equal(t, 2, report.Days[6].MealCount)
	assert.Equal(t, 1, report.Days[3].MealCount)

	meals := 0
	for _, d := range report.Days {
		meals += d.MealCount
	}
	assert.Equal(t, 3, meals, "the ten-day-old meal is outside the window")
	assert.Len(t, report.Nutrients, len(nutrition.TrendNutrients))

	_, err = ts.Trends(ctx, 7, MaxTrendWindow+1)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestTrendService_Progress(t *testing.T) {
	f, ts, _ := newTrendFixture(t)
	ctx := context.Background()

	f.svc.Now = fixedClock(testNow.Add(-time.Hour))
	_, err := f.svc.AnalyzeRecognized(ctx, 7, lunch, "", "")
	require.NoError(t, err)

	p, err := ts.Progress(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, p.MealCount)
	assert.Equal(t, 346.0, p.Calories)
	assert.Equal(t, 2500.0, p.CaloriesTarget)
	assert.Equal(t, 25.0, p.MealPercent)
}

func TestTrendService_EmailTrends(t *testing.T) {
	_, ts, mailer := newTrendFixture(t)
	ctx := context.Background()

	require.NoError(t, ts.EmailTrends(ctx, 7, "", 0))
	assert.Equal(t, "user@example.com", mailer.to)
	assert.True(t, strings.HasPrefix(mailer.body, "Nutrition trends 2026-10-09 to 2026-10-15"))
	assert.Contains(t, mailer.body, "Protein")

	require.NoError(t, ts.EmailTrends(ctx, 7, "other@example.com", 3))
	assert.Equal(t, "other@example.com", mailer.to)

	mailer.err = errors.New("ses down")
	assert.Error(t, ts.EmailTrends(ctx, 7, "", 0))
}

func TestTrendService_EmailTrendsWithoutAddress(t *testing.T) {
	f, ts, _ := newTrendFixture(t)
	seedProfile(t, f.db, 8, "female", "sedentary")
	require.NoError(t, f.db.Exec("UPDATE users SET email = '' WHERE id = 8").Error)

	err := ts.EmailTrends(context.Background(), 8, "", 0)
	assert.ErrorIs(t, err, ErrNoRecipient)
}
