package telegram

// Publisher sends rendered charts to a Telegram chat.
// Every send goes through a rate limiter and a circuit breaker; Telegram
// errors with code 429 or 5xx are retried with full-jitter backoff.

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ohlc-logchart/internal/infra/fs"
	logging "ohlc-logchart/internal/infra/log"
	"ohlc-logchart/internal/infra/retry"
)

// Sender is the part of *tgbotapi.BotAPI the publisher needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Options struct {
	RateLimit rate.Limit // sends per second
	Burst     int
	Retry     retry.Options
	FileWait  time.Duration // how long to wait for the chart file to appear
	ParseMode string
}

func DefaultOptions() Options {
	return Options{
		// Telegram allows about 20 messages per minute into one group.
		RateLimit: rate.Every(3 * time.Second),
		Burst:     1,
		Retry: retry.Options{
			MaxRetries: 3,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   30 * time.Second,
		},
		FileWait:  5 * time.Second,
		ParseMode: tgbotapi.ModeHTML,
	}
}

type Publisher struct {
	sender         Sender
	chatID         int64
	opts           Options
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
}

func NewPublisher(sender Sender, chatID int64, opts Options) *Publisher {
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Inf
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TelegramAPI",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.LogWarn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Publisher{
		sender:         sender,
		chatID:         chatID,
		opts:           opts,
		rateLimiter:    rate.NewLimiter(opts.RateLimit, opts.Burst),
		circuitBreaker: circuitBreaker,
	}
}

// NewBotPublisher logs in with token and returns a publisher for chatID.
func NewBotPublisher(token string, chatID int64, opts Options) (*Publisher, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	logging.LogInfo("Telegram bot authorized", zap.String("username", bot.Self.UserName))
	return NewPublisher(bot, chatID, opts), nil
}

// PublishChart sends the PNG at path with caption.
func (p *Publisher) PublishChart(ctx context.Context, path, caption string) error {
	if err := fs.WaitForFile(ctx, path, p.opts.FileWait); err != nil {
		return fmt.Errorf("chart not ready: %w", err)
	}

	photo := tgbotapi.NewPhoto(p.chatID, tgbotapi.FilePath(path))
	photo.Caption = caption
	photo.ParseMode = p.opts.ParseMode

	if err := p.send(ctx, "photo", photo); err != nil {
		return fmt.Errorf("failed to send chart: %w", err)
	}
	logging.LogSuccess("Chart published",
		zap.String("path", path),
		zap.Int64("chat_id", p.chatID))
	return nil
}

// PublishText sends a plain message, used when no chart could be produced.
func (p *Publisher) PublishText(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(p.chatID, text)
	msg.ParseMode = p.opts.ParseMode

	if err := p.send(ctx, "message", msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (p *Publisher) send(ctx context.Context, kind string, c tgbotapi.Chattable) error {
	requestID := logging.GenerateRequestID()
	startTime := time.Now()
	attempt := 0

	err := retry.Do(ctx, p.opts.Retry, func() error {
		attempt++
		if err := p.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}
		_, err := p.circuitBreaker.Execute(func() (interface{}, error) {
			_, err := p.sender.Send(c)
			return nil, toStatusError(err)
		})
		if err != nil {
			logging.LogWarn("Telegram send failed",
				zap.String("request_id", requestID),
				zap.String("kind", kind),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
		return err
	})

	logging.LogDebug("Telegram send finished",
		zap.String("request_id", requestID),
		zap.String("kind", kind),
		zap.Int("attempts", attempt),
		zap.Int64("duration_ms", time.Since(startTime).Milliseconds()),
		zap.Bool("ok", err == nil))
	return err
}

// toStatusError turns Telegram API errors into retry.StatusError so the retry
// policy can see the code and retry_after. Other errors pass through.
func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return &retry.StatusError{
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			RetryAfter: time.Duration(apiErr.RetryAfter) * time.Second,
		}
	}
	var valErr tgbotapi.Error
	if errors.As(err, &valErr) {
		return &retry.StatusError{
			StatusCode: valErr.Code,
			Message:    valErr.Message,
			RetryAfter: time.Duration(valErr.RetryAfter) * time.Second,
		}
	}
	return err
}
