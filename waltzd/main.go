package main

import (
	"fmt"
	"os"

	system "github.com/kildevaeld/go-system"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/davgren/waltz/demo"
)

func main() {
	if err := system.Run(wrappedMain); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
	}
}

func wrappedMain(kill system.KillChannel) error {
	address := pflag.StringP("address", "H", "", "listen address (overrides config)")
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	debug := pflag.BoolP("debug", "d", false, "debug logging")

	pflag.Parse()

	cfg, err := demo.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *address != "" {
		cfg.Address = *address
	}
	if *debug {
		cfg.Debug = true
	}

	var log *zap.Logger
	if cfg.Debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(log)

	server := demo.New(cfg, log).Server()

	go func() {
		<-kill
		server.Close()
	}()

	log.Info("listening", zap.String("address", cfg.Address))
	return server.Listen(cfg.Address)
}
