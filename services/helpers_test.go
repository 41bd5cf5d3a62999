package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hakimbdev/NutriSnap/config"
	"github.com/hakimbdev/NutriSnap/models"
	"github.com/hakimbdev/NutriSnap/nutrition"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, userID uint, sex, lifestyle string) {
	t.Helper()
	u := models.User{Sex: sex, Lifestyle: lifestyle, Email: "user@example.com"}
	u.ID = userID
	require.NoError(t, db.Create(&u).Error)
}

type fakeRecognizer struct {
	out   nutrition.RecognitionOutput
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte) (nutrition.RecognitionOutput, error) {
	f.calls++
	return f.out, f.err
}

type fakeImageStore struct {
	keys []string
	err  error
}

func (f *fakeImageStore) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	bodies []string
	err    error
}

func (f *fakeNotifier) PushToUser(_ context.Context, _ uint, _, body string, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, body)
	return f.err
}

type fakeSNS struct {
	published []string
	failFor   string
}

func (f *fakeSNS) CreatePlatformEndpoint(_ context.Context, in *awssns.CreatePlatformEndpointInput, _ ...func(*awssns.Options)) (*awssns.CreatePlatformEndpointOutput, error) {
	return &awssns.CreatePlatformEndpointOutput{EndpointArn: aws.String("arn:endpoint/" + aws.ToString(in.Token))}, nil
}

func (f *fakeSNS) Publish(_ context.Context, in *awssns.PublishInput, _ ...func(*awssns.Options)) (*awssns.PublishOutput, error) {
	arn := aws.ToString(in.TargetArn)
	if arn == f.failFor {
		return nil, errors.New("endpoint disabled")
	}
	f.published = append(f.published, arn)
	return &awssns.PublishOutput{}, nil
}

type fakeMailer struct {
	to, subject, body string
	err               error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	f.to, f.subject, f.body = to, subject, body
	return f.err
}

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
	err      error
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

var nop = zap.NewNop()
