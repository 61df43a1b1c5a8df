package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Nadi-System/nadi-core-sub000/parser"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the tokens of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  printTokens,
}

func init() {
	tokensCmd.Flags().Bool("skip-space", false, "Leave out whitespace, newline and comment tokens")

	rootCmd.AddCommand(tokensCmd)
}

func printTokens(cmd *cobra.Command, args []string) error {
	file := args[0]
	skipSpace, _ := cmd.Flags().GetBool("skip-space")

	data, err := afero.ReadFile(appFs, file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}
	toks, err := parser.Tokenize(string(data))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), describeError(err, file))
		return fmt.Errorf("tokenizing %s: %w", file, err)
	}

	w := cmd.OutOrStdout()
	for _, tok := range toks {
		if skipSpace && tok.IsSpace(true) {
			continue
		}
		fmt.Fprintf(w, "%d:%d\t%s\t%q\n", tok.Pos.Line, tok.Pos.Column, tok.Kind, tok.Text)
	}
	return nil
}
