//go:build integration

package tests

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"ohlc-logchart/internal/charts"
	"ohlc-logchart/internal/clients_api/telegram"
	"ohlc-logchart/internal/config"
	"ohlc-logchart/internal/series"
)

func loadRepoConfig() (*config.Config, error) {
	return config.Load("", nil)
}

// Sends a small chart to a real chat. Needs TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID.
func TestIntegration_Telegram_PublishChart(t *testing.T) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID, _ := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
	if token == "" || chatID == 0 {
		t.Skip("TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID not set")
	}

	p := series.DefaultParams()
	p.PointCount = 2000
	p.Blend = series.RegimeBlendConfig{TransitionStart: 500, TransitionEnd: 1500}
	res, err := series.Run(context.Background(), p)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	opts := charts.DefaultOptions()
	opts.OutputDir = t.TempDir()
	opts.Origin = p.Origin
	opts.BucketWidth = p.BucketWidth
	opts.Markers = res.Markers
	path, err := charts.RenderOHLC(res.Bars, opts)
	if err != nil {
		t.Fatalf("RenderOHLC failed: %v", err)
	}

	pub, err := telegram.NewBotPublisher(token, chatID, telegram.DefaultOptions())
	if err != nil {
		t.Fatalf("NewBotPublisher failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := pub.PublishChart(ctx, path, "integration test"); err != nil {
		t.Fatalf("PublishChart failed: %v", err)
	}
}
