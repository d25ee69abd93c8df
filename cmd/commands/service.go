package commands

import (
	"fmt"

	"go.uber.org/zap"

	"ohlc-logchart/internal/clients_api/telegram"
	"ohlc-logchart/internal/features/logchart"
	logging "ohlc-logchart/internal/infra/log"
	"ohlc-logchart/internal/recorder"
)

// newService wires the report service from cfg. withTelegram logs the bot in;
// the caller closes the returned recorder.
func newService(withTelegram bool) (*logchart.Service, recorder.Recorder, error) {
	opts, err := logchart.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	rec, err := recorder.Open(cfg.Storage.SQLitePath)
	if err != nil {
		logging.LogError("Failed to open run archive", zap.String("path", cfg.Storage.SQLitePath), zap.Error(err))
		return nil, nil, fmt.Errorf("failed to open recorder: %w", err)
	}

	var pub logchart.ChartPublisher
	if withTelegram {
		if err := cfg.ValidateTelegram(); err != nil {
			rec.Close()
			return nil, nil, err
		}
		tgOpts := telegram.DefaultOptions()
		tgOpts.Retry.MaxRetries = cfg.Telegram.MaxRetries
		p, err := telegram.NewBotPublisher(cfg.Telegram.BotToken, cfg.Telegram.ChatID, tgOpts)
		if err != nil {
			rec.Close()
			return nil, nil, err
		}
		pub = p
	}

	return logchart.NewService(opts, rec, pub), rec, nil
}
