package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/cmd/bazaard/app"
	"github.com/iov-one/bazaar/commands/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
)

func helpMessage() {
	fmt.Println("bazaard")
	fmt.Println("        Custodial auction node")
	fmt.Println("")
	fmt.Println("help     Print this message")
	fmt.Println("init     Initialize app state in genesis file [asset] [address] [--force]")
	fmt.Println("start    Run the abci server [--bind addr] [--debug]")
	fmt.Println("validate Validate the app state of genesis files <path>...")
	fmt.Println("version  Print the app version")
	fmt.Println(`
  --home string
        directory to store files under (default "$HOME/.bazaar")
  --log-level string
        log filter (default "info")
  --log-file string
        write logs to a rotated file instead of stdout
  --metrics string
        address the prometheus metrics are served on

All flags can be set with BAZAAR_* environment variables or in
<home>/config/bazaar.toml`)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

func run(args []string) error {
	conf, rest, err := loadConfig(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("missing command")
	}
	logger, err := newLogger(conf, os.Stdout)
	if err != nil {
		return err
	}

	cmd, rest := rest[0], rest[1:]
	switch cmd {
	case "help":
		helpMessage()
		return nil
	case "init":
		return server.InitCmd(app.GenInitOptions, logger, conf.Home, rest)
	case "start":
		gen := app.NewAppGenerator(serveMetrics(conf.Metrics, logger))
		defaults := server.StartOptions{Bind: conf.Bind, Debug: conf.Debug}
		return server.StartCmd(gen, logger, conf.Home, defaults, rest)
	case "validate":
		return server.ValidateGenesis(app.Initializers(), rest)
	case "version":
		fmt.Println(bazaar.Version())
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// serveMetrics exposes a new registry over http and returns it. Nothing is
// served when addr is empty.
func serveMetrics(addr string, logger log.Logger) prometheus.Registerer {
	if addr == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("Metrics server", "err", err)
		}
	}()
	return reg
}
