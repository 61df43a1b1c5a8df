package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Nadi-System/nadi-core-sub000/parser"
	"github.com/Nadi-System/nadi-core-sub000/tasks"
)

const (
	replPrompt     = "nadi> "
	continuePrompt = "  ... "
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive task shell",
	Long:  "Read task statements line by line and execute them against the loaded network. Type exit or press Ctrl-D to leave.",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func init() {
	replCmd.Flags().String("history", "", "File to keep the line history in")

	_ = viper.BindPFlag("history", replCmd.Flags().Lookup("history"))

	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	net, err := loadNetwork(viper.GetString("network"), logger)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), describeError(err, ""))
		return err
	}
	ctx := newTaskContext(cmd, net, logger)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     viper.GetString("history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("starting line editor: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "Network: %d nodes. Type help for the statement syntax.\n", net.Len())
	return repl(ctx, rl, cmd.ErrOrStderr())
}

// lineReader is the part of the line editor the loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// repl executes statements until exit or end of input. Input with unclosed
// brackets or strings continues on the next line; errors are reported and
// the loop goes on.
func repl(ctx *tasks.Context, in lineReader, errOut io.Writer) error {
	var pending strings.Builder
	for {
		line, err := in.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" && pending.Len() == 0 {
				return nil
			}
			pending.Reset()
			in.SetPrompt(replPrompt)
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		pending.WriteString(line)
		pending.WriteByte('\n')
		src := pending.String()
		if strings.TrimSpace(src) == "" {
			pending.Reset()
			continue
		}

		script, err := parser.ParseTasks(src)
		var perr *parser.ParseError
		if errors.As(err, &perr) && perr.Kind == parser.Unclosed && strings.TrimSpace(line) != "" {
			in.SetPrompt(continuePrompt)
			continue
		}
		pending.Reset()
		in.SetPrompt(replPrompt)
		if err != nil {
			fmt.Fprintln(errOut, describeError(err, ""))
			continue
		}

		for _, task := range script {
			out, err := ctx.Execute(task)
			if errors.Is(err, tasks.ErrExit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(errOut, "Error: %s\n", err)
				break
			}
			if out != "" {
				fmt.Fprintln(ctx.Out, out)
			}
		}
	}
}
