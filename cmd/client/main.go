package main

import (
	"flag"
	"log"
	"os"

	"dikto/internal/client"
	"dikto/internal/config"
	"dikto/internal/version"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the configuration file")
	hotDir := flag.String("hot", ".", "directory holding the hot-*.txt word lists")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("dikto client v%s", version.Version)

	conn, err := client.Dial(cfg.Client.Addr, cfg.Client.Port)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()
	log.Printf("connected to %s:%d", cfg.Client.Addr, cfg.Client.Port)

	// With file arguments the client transcribes them and exits;
	// without it runs push-to-talk dictation.
	if files := flag.Args(); len(files) > 0 {
		for _, f := range files {
			if err := client.TranscribeFile(conn, cfg.Client, f); err != nil {
				log.Fatal(err)
			}
		}
		return
	}

	hot := client.NewHotWords(cfg.Client.HotZh, cfg.Client.HotEn, cfg.Client.HotRule)
	if err := hot.LoadDir(*hotDir); err != nil {
		log.Printf("hot words: %v", err)
	}
	if !cfg.Client.HotKwd {
		hot.SetKeywords("")
	}

	capture, err := client.NewCapture(2)
	if err != nil {
		log.Fatal(err)
	}
	defer capture.Close()

	output := client.NewOutputDriver(cfg.Client.Paste, cfg.Client.RestoreClip)
	root, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	session := client.NewMicSession(cfg.Client, conn, capture, hot, output, root)
	trigger := client.NewStdinTrigger()
	defer trigger.Close()

	log.Println("press Enter to start dictating, Enter again to finish")
	if err := session.Run(trigger); err != nil {
		log.Fatal(err)
	}
}
