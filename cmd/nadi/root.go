package main

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Nadi-System/nadi-core-sub000/functions"
	"github.com/Nadi-System/nadi-core-sub000/network"
	"github.com/Nadi-System/nadi-core-sub000/parser"
	"github.com/Nadi-System/nadi-core-sub000/tasks"
)

// appFs is the filesystem every command reads from.
var appFs = afero.NewOsFs()

var rootCmd = &cobra.Command{
	Use:          "nadi",
	Short:        "Nadi river network task runner",
	Long:         "Nadi loads river networks and their node attributes and runs task scripts over them.",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("network", "n", "", "Network file to load")
	rootCmd.PersistentFlags().StringP("attrs", "a", "", "Directory of <node>.toml attribute files")
	rootCmd.PersistentFlags().String("attrs-glob", "", "Glob of attribute files named after their node (e.g. \"attrs/**/*.toml\")")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: trace, debug, info, warn or error")

	_ = viper.BindPFlag("network", rootCmd.PersistentFlags().Lookup("network"))
	_ = viper.BindPFlag("attrs", rootCmd.PersistentFlags().Lookup("attrs"))
	_ = viper.BindPFlag("attrs_glob", rootCmd.PersistentFlags().Lookup("attrs-glob"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	viper.SetEnvPrefix("NADI")
	viper.AutomaticEnv()
}

func newLogger(cmd *cobra.Command) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "nadi",
		Level:  hclog.LevelFromString(viper.GetString("log_level")),
		Output: cmd.ErrOrStderr(),
	})
}

// loadNetwork reads the network file, when one is given, and merges the
// configured attribute files into its nodes.
func loadNetwork(file string, logger hclog.Logger) (*network.Network, error) {
	net := network.New()
	if file != "" {
		var err error
		net, err = network.LoadFile(appFs, file)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded network", "file", file, "nodes", net.Len())
	}

	if dir := viper.GetString("attrs"); dir != "" {
		if err := net.LoadAttrs(appFs, dir); err != nil {
			return nil, fmt.Errorf("loading attributes: %w", err)
		}
	}
	if pattern := viper.GetString("attrs_glob"); pattern != "" {
		skipped, err := net.LoadAttrsGlob(appFs, pattern)
		if err != nil {
			return nil, fmt.Errorf("loading attributes: %w", err)
		}
		for _, name := range skipped {
			logger.Warn("attribute file matches no node", "file", name)
		}
	}
	return net, nil
}

func newTaskContext(cmd *cobra.Command, net *network.Network, logger hclog.Logger) *tasks.Context {
	ctx := tasks.NewContext(net, functions.NewDefaultRegistry(logger), logger)
	ctx.Out = cmd.OutOrStdout()
	ctx.ErrOut = cmd.ErrOrStderr()
	ctx.Fs = appFs
	return ctx
}

// describeError renders parse errors with their source line; other errors
// are returned as is.
func describeError(err error, filename string) string {
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		return perr.UserMessage(filename)
	}
	var terr *parser.TokenError
	if errors.As(err, &terr) {
		return terr.UserMessage(filename)
	}
	return err.Error()
}
