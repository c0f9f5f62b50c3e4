package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/lofreports/internal/containers"
	"github.com/localnerve/lofreports/internal/logger"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")

	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run a development database container with the DB_* variables from the .env file.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

example
  testcontainers -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	log := logger.New("lofreports-testcontainers", logger.Options{Level: "info"})

	if envFilename != "" {
		log.Infof("loading environment variables from %s", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.WithError(err).Fatal("failed to load environment variables")
		}
	} else {
		log.Info("no environment file specified, using current environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	db, err := containers.Start(ctx, containers.OptionsFromEnv(), log)
	if err != nil {
		log.WithError(err).Fatal("failed to start database container")
	}

	// Connection settings for a server run against this container
	fmt.Fprintf(os.Stdout, "DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\n",
		db.Config.DBType, db.Config.DBHost, db.Config.DBPort, db.Config.DBDatabase, db.Config.DBUser)

	<-ctx.Done()
	log.Info("received signal, terminating database container")
	db.Terminate(context.Background(), log)
}
