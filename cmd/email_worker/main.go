package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/passvault/config"
	"github.com/oksasatya/passvault/internal/worker"
	"github.com/oksasatya/passvault/pkg/helpers"
	"github.com/oksasatya/passvault/pkg/mailer"
	mailtpl "github.com/oksasatya/passvault/pkg/mailer/templates"
)

const prefetch = 16

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, prefetch)
	if err != nil {
		logger.WithError(err).Fatal("rabbitmq consumer")
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	w := worker.NewEmailWorker(
		mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		mailtpl.IPAPIResolver{},
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			settle(logger, msg, w.Handle(ctx, msg.Body))
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")
	if err := consumer.Stop(); err != nil {
		logger.WithError(err).Warn("consumer cancel")
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		logger.Warn("in-flight messages left unacked")
	}
}

func settle(logger logrus.FieldLogger, msg amqp.Delivery, out worker.Outcome) {
	var err error
	switch out {
	case worker.Ack:
		err = msg.Ack(false)
	case worker.Drop:
		err = msg.Nack(false, false)
	case worker.Retry:
		err = msg.Nack(false, true)
	}
	if err != nil {
		helpers.LogError(logger, "settle delivery", err, logrus.Fields{"outcome": out.String()})
	}
}
