package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/gaspardpetit/spahost/core/logx"
	"github.com/gaspardpetit/spahost/core/secret"
	"github.com/gaspardpetit/spahost/internal/assets"
	"github.com/gaspardpetit/spahost/internal/config"
	"github.com/gaspardpetit/spahost/internal/inflight"
	"github.com/gaspardpetit/spahost/internal/metrics"
	"github.com/gaspardpetit/spahost/internal/server"
	"github.com/gaspardpetit/spahost/internal/serverstate"
)

var (
	version   = "dev"
	buildSHA  = "unknown"
	buildDate = "unknown"
)

func loadConfig() config.ServerConfig {
	var cfg config.ServerConfig
	cfg.SetDefaults()
	cfg.ApplyEnv()
	if p, ok := config.ConfigFileFromArgs(os.Args[1:]); ok {
		cfg.ConfigFile = p
	}
	if cfg.ConfigFile != "" {
		if err := cfg.LoadFile(cfg.ConfigFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			logx.Log.Fatal().Err(err).Str("path", cfg.ConfigFile).Msg("load config")
		}
	}
	path := cfg.ConfigFile
	// Environment wins over the file.
	cfg.ApplyEnv()
	cfg.SetDefaults()
	cfg.ConfigFile = path
	return cfg
}

func loadTable(cfg config.ServerConfig) *assets.Table {
	var (
		tbl    *assets.Table
		err    error
		source = "embedded"
	)
	if cfg.StaticDir != "" {
		source = cfg.StaticDir
		tbl, err = assets.LoadDir(cfg.StaticDir)
	} else {
		tbl, err = assets.Embedded()
	}
	if err != nil {
		logx.Log.Fatal().Err(err).Str("source", source).Msg("load assets")
	}
	logx.Log.Info().Str("source", source).Int("count", tbl.Len()).Int64("bytes", tbl.Size()).Msg("assets loaded")
	if tbl.Len() == 0 {
		logx.Log.Warn().Msg("no assets bundled; run the front-end build before compiling")
	} else if _, ok := tbl.Get(cfg.IndexFile); !ok {
		logx.Log.Warn().Str("index", cfg.IndexFile).Msg("index document missing; client routes will return 404")
	}
	return tbl
}

func listen(addr, name string) net.Listener {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logx.Log.Fatal().Err(err).Str("addr", addr).Msgf("bind %s listener", name)
	}
	return ln
}

func serve(srv *http.Server, ln net.Listener, name string) {
	logx.Log.Info().Str("addr", ln.Addr().String()).Msgf("%s server starting", name)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logx.Log.Error().Err(err).Msgf("%s server error", name)
	}
}

func main() {
	cfg := loadConfig()
	showVersion := flag.Bool("version", false, "print version and exit")
	cfg.BindFlagsFromCurrent(flag.CommandLine)
	flag.Usage = func() {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(), "spahost version=%s sha=%s date=%s\n\n", version, buildSHA, buildDate)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Printf("spahost version=%s sha=%s date=%s\n", version, buildSHA, buildDate)
		return
	}
	logx.Configure(cfg.LogLevel)

	tbl := loadTable(cfg)
	metrics.SetBuildInfo(version, buildSHA, buildDate)
	metrics.SetAssets(tbl.Len(), tbl.Size())

	var store serverstate.Store
	if cfg.RedisAddr != "" {
		rs, err := serverstate.NewRedisStore(context.Background(), cfg.RedisAddr, "")
		if err != nil {
			logx.Log.Fatal().Err(err).Str("addr", secret.MaskURL(cfg.RedisAddr)).Msg("connect redis")
		}
		store = rs
		logx.Log.Info().Str("addr", secret.MaskURL(cfg.RedisAddr)).Msg("using redis state store")
	}
	tracker := serverstate.NewTracker(store)

	deps := server.Deps{
		Table:      tbl,
		Tracker:    tracker,
		Inflight:   &inflight.Counter{},
		Registry:   server.NewRegistry(),
		Version:    version,
		InstanceID: uuid.NewString(),
		StartedAt:  time.Now(),
	}
	logx.Log.Info().Str("instance", deps.InstanceID).Str("version", version).Msg("spahost starting")

	srv := &http.Server{Handler: server.New(cfg, deps), ReadHeaderTimeout: cfg.ReadHeaderTimeout}
	ln := listen(cfg.Addr, "http")
	var opsSrv *http.Server
	var opsLn net.Listener
	if cfg.MetricsEnabled() && !cfg.MetricsShared() {
		opsSrv = &http.Server{Handler: server.NewOps(cfg, deps), ReadHeaderTimeout: cfg.ReadHeaderTimeout}
		opsLn = listen(cfg.MetricsAddr, "ops")
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range sigCh {
			if tracker.IsDraining() || cfg.DrainTimeout == 0 {
				logx.Log.Warn().Msg("termination requested")
				cancel()
				return
			}
			tracker.StartDrain()
			logx.Log.Info().Dur("timeout", cfg.DrainTimeout).Int64("inflight", deps.Inflight.Load()).Msg("draining; send SIGTERM again to terminate immediately")
			go func(d time.Duration) {
				waitCtx := ctx
				if d > 0 {
					var waitCancel context.CancelFunc
					waitCtx, waitCancel = context.WithTimeout(ctx, d)
					defer waitCancel()
				}
				if !deps.Inflight.WaitForZero(waitCtx) && ctx.Err() == nil {
					logx.Log.Warn().Msg("drain timeout exceeded; terminating")
				}
				cancel()
			}(cfg.DrainTimeout)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			logx.Log.Error().Err(err).Msg("server shutdown")
		}
		if opsSrv != nil {
			if err := opsSrv.Shutdown(context.Background()); err != nil {
				logx.Log.Error().Err(err).Msg("ops server shutdown")
			}
		}
		if c, ok := store.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				logx.Log.Error().Err(err).Msg("close redis")
			}
		}
	}()

	if opsSrv != nil {
		go serve(opsSrv, opsLn, "ops")
	}
	tracker.SetStatus(serverstate.StatusReady)
	serve(srv, ln, "http")
	cancel()
	<-done
	logx.Log.Info().Msg("server stopped")
}
