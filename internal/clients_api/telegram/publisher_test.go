package telegram

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"ohlc-logchart/internal/infra/retry"
)

type fakeSender struct {
	mu    sync.Mutex
	errs  []error // returned in order, nil once exhausted
	sent  []tgbotapi.Chattable
	calls int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return tgbotapi.Message{}, err
		}
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: f.calls}, nil
}

func fastOptions() Options {
	return Options{
		RateLimit: rate.Inf,
		Retry: retry.Options{
			MaxRetries: 3,
			BaseDelay:  time.Millisecond,
			MaxDelay:   5 * time.Millisecond,
		},
		FileWait:  100 * time.Millisecond,
		ParseMode: tgbotapi.ModeHTML,
	}
}

func writeChart(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))
	return path
}

func TestPublishChart_Sends(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, -100, fastOptions())

	path := writeChart(t)
	require.NoError(t, p.PublishChart(context.Background(), path, "<b>boom</b>"))

	require.Len(t, sender.sent, 1)
	photo, ok := sender.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100), photo.ChatID)
	assert.Equal(t, "<b>boom</b>", photo.Caption)
	assert.Equal(t, tgbotapi.ModeHTML, photo.ParseMode)
	assert.Equal(t, tgbotapi.FilePath(path), photo.File)
}

func TestPublishChart_RetriesRetryableErrors(t *testing.T) {
	sender := &fakeSender{errs: []error{
		&tgbotapi.Error{Code: 429, Message: "Too Many Requests", ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 1}},
		&tgbotapi.Error{Code: 502, Message: "Bad Gateway"},
	}}
	p := NewPublisher(sender, 1, fastOptions())

	require.NoError(t, p.PublishChart(context.Background(), writeChart(t), "caption"))
	assert.Equal(t, 3, sender.calls)
	assert.Len(t, sender.sent, 1)
}

func TestPublishChart_DoesNotRetryClientErrors(t *testing.T) {
	sender := &fakeSender{errs: []error{&tgbotapi.Error{Code: 400, Message: "chat not found"}}}
	p := NewPublisher(sender, 1, fastOptions())

	err := p.PublishChart(context.Background(), writeChart(t), "caption")
	require.Error(t, err)
	assert.Equal(t, 1, sender.calls)

	var se *retry.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 400, se.StatusCode)
}

func TestPublishChart_GivesUpAfterMaxRetries(t *testing.T) {
	boom := &tgbotapi.Error{Code: 500, Message: "Internal Server Error"}
	sender := &fakeSender{errs: []error{boom, boom, boom, boom, boom}}
	p := NewPublisher(sender, 1, fastOptions())

	err := p.PublishChart(context.Background(), writeChart(t), "caption")
	require.Error(t, err)
	assert.Equal(t, 4, sender.calls)
}

func TestPublishChart_MissingFile(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender, 1, fastOptions())

	err := p.PublishChart(context.Background(), filepath.Join(t.TempDir(), "none.png"), "caption")
	require.Error(t, err)
	assert.Equal(t, 0, sender.calls)
}

func TestPublishText(t *testing.T) {
	sender := &fakeSender{errs: []error{errors.New("network down")}}
	p := NewPublisher(sender, 9, fastOptions())

	// plain errors are not retried
	require.Error(t, p.PublishText(context.Background(), "hello"))
	require.NoError(t, p.PublishText(context.Background(), "hello"))

	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, int64(9), msg.ChatID)
}

func TestToStatusError(t *testing.T) {
	assert.NoError(t, toStatusError(nil))

	plain := errors.New("plain")
	assert.Same(t, plain, toStatusError(plain))

	err := toStatusError(tgbotapi.Error{Code: 429, ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 7}})
	var se *retry.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 429, se.StatusCode)
	assert.Equal(t, 7*time.Second, se.RetryAfter)
	assert.True(t, retry.IsRetryable(err))
}
