package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Nadi-System/nadi-core-sub000/parser"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Check files for syntax errors",
	Long: `Parse task, network and attribute files without running anything.

The file kind follows the extension: .network and .net are networks, .toml
is an attribute file and anything else is a task script. Use --kind to
override it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: checkFiles,
}

func init() {
	checkCmd.Flags().String("kind", "", "File kind: tasks, network or attrs (default: from the extension)")

	rootCmd.AddCommand(checkCmd)
}

func checkFiles(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	failed := 0
	for _, file := range args {
		summary, err := checkFile(file, kind)
		if err != nil {
			failed++
			fmt.Fprintln(cmd.ErrOrStderr(), describeError(err, file))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s)\n", file, summary)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func fileKind(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".network", ".net":
		return "network"
	case ".toml":
		return "attrs"
	}
	return "tasks"
}

func checkFile(file, kind string) (string, error) {
	if kind == "" {
		kind = fileKind(file)
	}
	data, err := afero.ReadFile(appFs, file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	src := string(data)

	switch kind {
	case "tasks":
		script, err := parser.ParseTasks(src)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d statements", len(script)), nil
	case "network":
		nf, err := parser.ParseNetwork(src)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d nodes, %d edges", len(nf.Nodes), len(nf.Paths)), nil
	case "attrs":
		tbl, err := parser.ParseAttrFile(src)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d attributes", tbl.Len()), nil
	}
	return "", fmt.Errorf("unknown file kind %q", kind)
}
