package server

import (
	"github.com/iov-one/bazaar/errors"
	"github.com/spf13/pflag"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"

	// DefaultBind is the address tendermint connects to by default.
	DefaultBind = "tcp://localhost:26658"
)

// StartOptions are the flags accepted by the start command.
type StartOptions struct {
	Bind  string
	Debug bool
}

// ParseStartFlags parses the start command arguments. Defaults are taken
// from given options, so that values loaded from the configuration file
// can be overridden on the command line.
func ParseStartFlags(defaults StartOptions, args []string) (StartOptions, error) {
	opts := defaults
	if opts.Bind == "" {
		opts.Bind = DefaultBind
	}
	startFlags := pflag.NewFlagSet("start", pflag.ContinueOnError)
	startFlags.StringVar(&opts.Bind, flagBind, opts.Bind, "address server listens on")
	startFlags.BoolVar(&opts.Debug, flagDebug, opts.Debug, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return opts, errors.Wrap(errors.ErrInput, err.Error())
	}
	return opts, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(string, log.Logger, bool) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI socket
// protocol until the process is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger, home string, defaults StartOptions, args []string) error {
	opts, err := ParseStartFlags(defaults, args)
	if err != nil {
		return err
	}
	svr, err := startServer(gen, logger, home, opts)
	if err != nil {
		return err
	}

	// TrapSignal only installs the handler, block until the server is stopped.
	cmn.TrapSignal(logger, func() {
		if err := svr.Stop(); err != nil {
			logger.Error("Stopping ABCI server", "err", err)
		}
	})
	<-svr.Quit()
	return nil
}

// startServer generates the app and starts listening on the bind address.
func startServer(gen AppGenerator, logger log.Logger, home string, opts StartOptions) (cmn.Service, error) {
	// Generate the app in the proper dir
	app, err := gen(home, logger, opts.Debug)
	if err != nil {
		return nil, err
	}

	logger.Info("Starting ABCI app", "bind", opts.Bind)

	svr, err := server.NewServer(opts.Bind, "socket", app)
	if err != nil {
		return nil, errors.Wrap(err, "creating listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return nil, errors.Wrap(err, "start server")
	}
	return svr, nil
}
