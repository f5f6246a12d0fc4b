package main

import (
	stdlog "log"

	kafkago "github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	"herhaalbot/internal/bot/config"
	botdb "herhaalbot/internal/bot/db"
	"herhaalbot/internal/bot/events"
	botkafka "herhaalbot/internal/bot/kafka"
	"herhaalbot/internal/bot/services"
	"herhaalbot/internal/wiki"
	pkgdb "herhaalbot/pkg/db"
)

type bot struct {
	cfg      *config.Config
	runner   *services.RunService
	history  *services.HistoryService
	gormDB   *gorm.DB
	producer *kafkago.Writer
}

// setup loads the configuration and wires the run service. History is opened when a
// database is configured or needDB is set; needDB falls back to the default SQLite file.
func setup(configPath string, dryRun, needDB bool) (*bot, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	client, err := wiki.NewClient(cfg.WikiOptions())
	if err != nil {
		return nil, err
	}
	var site wiki.Site = client
	if dryRun {
		site = wiki.NewDryRun(site)
	}
	b := &bot{cfg: cfg, runner: services.NewRunService(site, cfg)}

	dbType := cfg.Database.Type
	if dbType == "" && needDB {
		dbType = pkgdb.TypeSQLite
	}
	if dbType != "" && !dryRun {
		b.gormDB, err = pkgdb.NewGormDB(dbType, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if err := pkgdb.AutoMigrate(b.gormDB, &botdb.Run{}, &botdb.Outcome{}); err != nil {
			b.Close()
			return nil, err
		}
		b.history = services.NewHistoryService(b.gormDB, cfg.Pages.Summary)
		b.runner.History = b.history
	}

	if len(cfg.Kafka.Brokers) > 0 && !dryRun {
		b.producer = botkafka.NewOutcomeProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		b.runner.Events = events.NewPublisher(b.producer)
	}
	return b, nil
}

func (b *bot) Close() {
	if b.producer != nil {
		if err := b.producer.Close(); err != nil {
			stdlog.Printf("Kafka producer close error: %v", err)
		}
	}
	if b.gormDB != nil {
		if sqlDB, err := b.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
