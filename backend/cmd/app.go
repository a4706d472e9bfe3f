package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/adwski/chat-playground/backend/core"
	httpServer "github.com/adwski/chat-playground/backend/server/http"
	websocketServer "github.com/adwski/chat-playground/backend/server/websocket"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// env vars (CHAT_ prefix) provide defaults, flags override them.
type envDefaults struct {
	APIListenAddr       string   `envconfig:"API_LISTEN_ADDR" default:":8080"`
	WSListenAddr        string   `envconfig:"WS_LISTEN_ADDR" default:":8888"`
	LogLevel            string   `envconfig:"LOG_LEVEL" default:"debug"`
	Rooms               []string `envconfig:"ROOMS" default:"General,Technology,Gaming,Random"`
	DefaultRoom         string   `envconfig:"DEFAULT_ROOM" default:"General"`
	AllowDuplicateNames bool     `envconfig:"ALLOW_DUPLICATE_NAMES" default:"false"`
}

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	var env envDefaults
	if err := envconfig.Process("chat", &env); err != nil {
		logger.Fatal().Err(err).Msg("failed to process environment")
	}

	fs := pflag.NewFlagSet("main", pflag.ContinueOnError)
	var (
		apiListenAddr = fs.StringP("api-listen-addr", "a", env.APIListenAddr, "api listen address")
		wsListenAddr  = fs.StringP("ws-listen-addr", "w", env.WSListenAddr, "websocket chat listen address")
		logLevel      = fs.StringP("log-level", "l", env.LogLevel, "log level")
		rooms         = fs.StringSlice("rooms", env.Rooms, "room set")
		defaultRoom   = fs.String("default-room", env.DefaultRoom, "room joined on login")
		allowDupes    = fs.Bool("allow-duplicate-names", env.AllowDuplicateNames, "allow two connections to share a display name")
	)
	if err := fs.Parse(os.Args[1:]); err != nil {
		logger.Fatal().Err(err).Msg("failed to parse command line arguments")
	}

	lvl, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse loglevel")
	}
	logger = logger.Level(lvl)

	engine, err := core.New(core.Config{
		Logger:              &logger,
		Rooms:               *rooms,
		DefaultRoom:         *defaultRoom,
		AllowDuplicateNames: *allowDupes,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize engine")
	}

	httpSrv := httpServer.NewServer(httpServer.Config{
		Logger:         &logger,
		PresenceSource: engine,
		ListenAddr:     *apiListenAddr,
	})
	wsSrv := websocketServer.NewServer(websocketServer.Config{
		Logger:     &logger,
		Core:       engine,
		ListenAddr: *wsListenAddr,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		wg   = &sync.WaitGroup{}
		errc = make(chan error, 2)
	)
	wg.Add(2)
	go httpSrv.Run(ctx, wg, errc)
	go wsSrv.Run(ctx, wg, errc)

	select {
	case err = <-errc:
		logger.Error().Err(err).Msg("unexpected server error, shutting down")
	case <-ctx.Done():
		logger.Warn().Msg("interrupted")
	}
	cancel()
	wg.Wait()
}
