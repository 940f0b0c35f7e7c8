package main

import (
	"log"
	"os"

	"github.com/tutorhub/backend/core"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// start CLI
	cli := commandLine{
		client: newApiClient(conf, os.Getenv("API_URL"), os.Getenv("API_TOKEN")),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
