package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/bot"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/config"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/delivery"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/download"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/gate"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/lifecycle"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/remux"
)

const logFile = "bot.log"

func main() {
	configPath := flag.String("config", config.DefaultConfigFile, "path to config file")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		log.SetOutput(io.MultiWriter(os.Stderr, f))
		defer f.Close()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if cfg.Telegram.Token == "" {
		log.Fatalf("bot token not configured, edit %s", *configPath)
	}

	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		log.WithError(err).Fatal("failed to create download directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Fetches the yt-dlp binary on first run if it is not on PATH.
	ytdlp.MustInstall(ctx, nil)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to Telegram")
	}

	extractor := download.NewYTDLPExtractor(cfg.DownloadDir)
	downloads := download.NewService(extractor, cfg.MaxFileSizeBytes(), cfg.MaxParallelDownloads, log)
	fetcher := download.NewFetcher(cfg.DownloadDir, cfg.MaxFileSizeBytes())

	files := lifecycle.NewManager(cfg.DownloadDir, time.Duration(cfg.SweepTTLMinutes)*time.Minute, log)
	go files.Run(ctx, lifecycle.DefaultSweepInterval)

	deliveredTTL := time.Duration(cfg.DeliveredTTLMinutes) * time.Minute
	dispatcher := delivery.NewDispatcher(bot.NewTransport(api), files, deliveredTTL, log)

	availability := gate.New()
	if cfg.Schedule.Enabled {
		sched, err := scheduleFromConfig(cfg.Schedule)
		if err != nil {
			log.WithError(err).Fatal("invalid schedule in config")
		}
		availability.SetSchedule(sched)
	}

	b := bot.New(bot.Deps{
		API:        api,
		Config:     cfg,
		Downloads:  downloads,
		Fetcher:    fetcher,
		Dispatcher: dispatcher,
		Files:      files,
		Gate:       availability,
		Remuxer:    remux.NewService(cfg.RemuxEnabled, log),
		Log:        log,
	})

	b.Run(ctx)
	log.Info("bot stopped")
}

func scheduleFromConfig(sc config.ScheduleConfig) (gate.Schedule, error) {
	start, err := gate.ParseClock(sc.Start)
	if err != nil {
		return gate.Schedule{}, err
	}
	end, err := gate.ParseClock(sc.End)
	if err != nil {
		return gate.Schedule{}, err
	}

	weekdays := make(map[time.Weekday]bool)
	names := map[string]time.Weekday{
		"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
		"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
		"sat": time.Saturday,
	}
	for _, name := range sc.Weekdays {
		if day, ok := names[strings.ToLower(name)]; ok {
			weekdays[day] = true
		}
	}

	return gate.Schedule{
		Enabled:  true,
		Start:    start,
		End:      end,
		Weekdays: weekdays,
	}, nil
}
