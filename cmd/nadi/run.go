package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/parser"
	"github.com/Nadi-System/nadi-core-sub000/tasks"
)

var runCmd = &cobra.Command{
	Use:   "run <tasks-file>",
	Short: "Run a task script",
	Long:  "Load the network and its attributes, then execute every statement of a task script in order.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasks,
}

func init() {
	runCmd.Flags().StringArrayP("env", "e", nil, "Set an env variable before running, as name=value")
	runCmd.Flags().Bool("dry-run", false, "Parse the script and list its statements without executing")

	rootCmd.AddCommand(runCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	taskFile := args[0]
	envFlags, _ := cmd.Flags().GetStringArray("env")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	logger := newLogger(cmd)

	src, err := afero.ReadFile(appFs, taskFile)
	if err != nil {
		return fmt.Errorf("reading task file: %w", err)
	}
	script, err := parser.ParseTasks(string(src))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), describeError(err, taskFile))
		return fmt.Errorf("parsing task file: %w", err)
	}

	if dryRun {
		printScriptSummary(cmd.OutOrStdout(), script)
		return nil
	}

	net, err := loadNetwork(viper.GetString("network"), logger)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), describeError(err, ""))
		return err
	}

	ctx := newTaskContext(cmd, net, logger)
	if err := setEnv(ctx.Env, envFlags); err != nil {
		return err
	}
	ctx.Logger.Info("running tasks", "file", taskFile, "statements", len(script))
	return ctx.Run(script)
}

// setEnv applies name=value assignments. Values use the attribute syntax;
// anything that does not parse is taken as a plain string.
func setEnv(env *tasks.Env, assignments []string) error {
	for _, a := range assignments {
		name, raw, ok := strings.Cut(a, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid env assignment %q, expected name=value", a)
		}
		v, err := parser.ParseAttribute(raw)
		if err != nil {
			v = attrs.String(raw)
		}
		if err := env.Set(strings.TrimSpace(name), v); err != nil {
			return fmt.Errorf("setting env %s: %w", name, err)
		}
	}
	return nil
}

func printScriptSummary(w io.Writer, script []parser.Task) {
	fmt.Fprintf(w, "%d statements\n", len(script))
	for i, task := range script {
		fmt.Fprintf(w, "  %3d  %s\n", i+1, task)
	}
}
