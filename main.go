package main

import (
	"log/slog"
	"os"

	"summy.bot/bot"
	"summy.bot/config"
	"summy.bot/kafka"
	"summy.bot/msglog"
	"summy.bot/network"
	"summy.bot/platform"
	"summy.bot/utils"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	msgLog := msglog.New(cfg.LogFile, logger)
	client := platform.NewClient(cfg.AccessToken, logger)

	var history *kafka.ProducerPool
	if len(cfg.KafkaBrokers) > 0 {
		history = kafka.NewProducerPool(cfg.KafkaBrokers, logger)
	}

	processor := bot.NewProcessor(client, msgLog, history, cfg.BusinessAccountID, logger)
	recorder := bot.NewRecorder(utils.NewIDGen())

	httpServer := network.NewServer(cfg, processor, recorder, msgLog)
	go httpServer.Run()

	select {}
}
