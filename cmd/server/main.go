package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dikto/internal/config"
	"dikto/internal/recognize"
	"dikto/internal/server"
	"dikto/internal/version"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Refuse to bind when the models are not in place; a started server
	// that cannot decode anything helps nobody.
	if missing := recognize.MissingModelFiles(&cfg.Server.RecognizeModel, cfg.Server.PuncModel); len(missing) > 0 {
		fmt.Fprintln(os.Stderr, "missing model files:")
		for _, p := range missing {
			fmt.Fprintf(os.Stderr, "  %s\n", p)
		}
		fmt.Fprintf(os.Stderr, "download the models to the paths above or adjust %s\n", *configPath)
		os.Exit(1)
	}

	log.Printf("dikto server v%s", version.Version)

	log.Printf("loading speech model (%s)", cfg.Server.RecognizeModel.Engine)
	t0 := time.Now()
	rec, err := recognize.NewRecognizer(&cfg.Server.RecognizeModel)
	if err != nil {
		log.Fatal(err)
	}
	defer rec.Close()
	log.Printf("speech model ready in %.1fs", time.Since(t0).Seconds())

	punc, err := recognize.NewPunctuator(cfg.Server.PuncModel)
	if err != nil {
		log.Fatal(err)
	}
	if punc != nil {
		defer punc.Close()
		log.Printf("punctuation model ready")
	}

	registry := server.NewRegistry()
	worker := recognize.NewWorker(rec, punc, registry, recognize.FormatOptions{
		Spell: cfg.Server.FormatSpell,
		Punc:  cfg.Server.FormatPunc,
		Num:   cfg.Server.FormatNum,
	}, cfg.Server.QueueSize)
	worker.Start()
	defer worker.Stop()

	srv := server.New(registry, worker.In())
	go srv.SendResults(worker.Out())

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s:%d", cfg.Server.Addr, cfg.Server.Port)
	if err := srv.Start(cfg.Server.Addr, cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
