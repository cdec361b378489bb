// The server command is the entrypoint for running gomokud, the
// matchmaking and relay server for two-player board game clients. It takes
// care of loading configuration, wiring the lobby to its TCP frontend, and
// shutting everything down cleanly on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gomokud/internal/core"
	"gomokud/internal/core/debug"
	"gomokud/internal/frontend"
	"gomokud/internal/lobby"
)

var (
	configFlag = flag.String("config", "./", "Path to the directory containing the server config file")
	portFlag   = flag.Int("port", 0, "Listen port (overrides the configured lobby port)")
)

func main() {
	flag.Parse()

	config, err := core.LoadConfig(*configFlag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if *portFlag != 0 {
		config.LobbyServer.Port = *portFlag
	}

	logger, err := core.NewLogger(config)
	if err != nil {
		fmt.Println("error initializing logger:", err)
		os.Exit(1)
	}

	if config.Debugging.PprofEnabled {
		debug.StartPprofServer(logger, config.Debugging.PprofPort)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ctrl-C and SIGTERM shut the server down gracefully.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logger.Info("shutting down")
		cancel()
	}()

	l := lobby.New(config, logger)
	f := &frontend.Frontend{
		Addr:   fmt.Sprintf("%s:%d", config.Hostname, config.LobbyServer.Port),
		Config: config,
		Logger: logger,
		Lobby:  l,
	}

	wg := sync.WaitGroup{}
	if err := f.Start(ctx, &wg); err != nil {
		logger.Errorf("error starting lobby server: %v", err)
		os.Exit(1)
	}

	l.Run(ctx)
	wg.Wait()
	logger.Info("exited")
}
