package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	notifhandler "github.com/edupulse/deadline-reminder/internal/api/handlers/notification"
	"github.com/edupulse/deadline-reminder/internal/api/handlers/reminder"
	"github.com/edupulse/deadline-reminder/internal/api/router"
	"github.com/edupulse/deadline-reminder/internal/api/server"
	"github.com/edupulse/deadline-reminder/internal/config"
	"github.com/edupulse/deadline-reminder/internal/rabbitmq/handlers/delivery"
	"github.com/edupulse/deadline-reminder/internal/rabbitmq/queue"
	itemrepo "github.com/edupulse/deadline-reminder/internal/repository/item"
	notifrepo "github.com/edupulse/deadline-reminder/internal/repository/notification"
	progressrepo "github.com/edupulse/deadline-reminder/internal/repository/progress"
	reminderrepo "github.com/edupulse/deadline-reminder/internal/repository/reminder"
	studentrepo "github.com/edupulse/deadline-reminder/internal/repository/student"
	notifsvc "github.com/edupulse/deadline-reminder/internal/service/notification"
	schedulesvc "github.com/edupulse/deadline-reminder/internal/service/schedule"
	sweepsvc "github.com/edupulse/deadline-reminder/internal/service/sweep"
	"github.com/edupulse/deadline-reminder/internal/worker"
	"github.com/edupulse/deadline-reminder/pkg/email"
	"github.com/edupulse/deadline-reminder/pkg/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()
	val := validator.New()

	loc := time.Local
	if cfg.Sweep.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Sweep.Timezone)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to load timezone")
		}
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Retries, cfg.RabbitMQ.Pause)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to open channel")
	}

	q, err := queue.NewDeliveryQueue(ch, cfg)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to create delivery queue")
	}

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	items := itemrepo.NewRepository(db)
	progress := progressrepo.NewRepository(db)
	reminders := reminderrepo.NewRepository(db)
	notifications := notifrepo.NewRepository(db)
	students := studentrepo.NewRepository(db)

	dbNum, err := strconv.Atoi(cfg.Redis.Database)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to parse redis database")
	}

	rdb := redis.New(cfg.Redis.Address, cfg.Redis.Password, dbNum)

	if err = rdb.Ping(ctx).Err(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	smtpPort, err := strconv.Atoi(cfg.Email.SMTPPort)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to parse email smtp port")
	}

	emailClient := email.NewClient(
		cfg.Email.SMTPHost,
		smtpPort,
		cfg.Email.Username,
		cfg.Email.Password,
		cfg.Email.From,
	)
	telegramClient := telegram.NewClient(cfg.Telegram.Token)

	notifiers := map[string]notifsvc.Notifier{
		"email":    emailClient,
		"telegram": telegramClient,
	}

	sweeper := sweepsvc.NewService(reminders, items, progress, notifications, students, q, cfg.Retry)
	scheduler := schedulesvc.NewService(items, reminders, loc)
	notifService := notifsvc.NewService(notifications, sweeper, notifiers, rdb)

	reminderHandler := reminder.NewHandler(scheduler, val)
	notifHandler := notifhandler.NewHandler(notifService, cfg)
	deliveryHandler := delivery.NewHandler(notifService)

	dispatcher := worker.NewDispatcher(q, deliveryHandler, notifService)
	periodicSweep := worker.NewSweeper(sweeper, cfg.Sweep.Interval)

	go dispatcher.Run(ctx, cfg.Retry, cfg.Workers.Count)
	go periodicSweep.Run(ctx)

	r := router.New(reminderHandler, notifHandler)
	s := server.New(cfg.Server.HTTPPort, r)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Printf("failed to close master DB: %v", err)
	}

	for i, slave := range db.Slaves {
		if err := slave.Close(); err != nil {
			zlog.Logger.Printf("failed to close slave DB %d: %v", i, err)
		}
	}

	if err := ch.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
	}

	if err := conn.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
	}
}
