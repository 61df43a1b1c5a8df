package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/Nadi-System/nadi-core-sub000/functions"
)

var functionsCmd = &cobra.Command{
	Use:   "functions [name]",
	Short: "List the available functions",
	Long:  "Print the registered functions grouped by plugin, or the documentation of one function.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  listFunctions,
}

func init() {
	rootCmd.AddCommand(functionsCmd)
}

func listFunctions(cmd *cobra.Command, args []string) error {
	reg := functions.NewDefaultRegistry(newLogger(cmd))
	w := cmd.OutOrStdout()
	if len(args) == 1 {
		help, err := reg.HelpAny(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(w, help)
		return nil
	}

	tree := treeprint.NewWithRoot("plugins")
	for _, p := range reg.Plugins() {
		branch := tree.AddBranch(p.Name)
		for _, name := range p.Node {
			branch.AddMetaNode(functions.ScopeNode, name)
		}
		for _, name := range p.Network {
			branch.AddMetaNode(functions.ScopeNetwork, name)
		}
		for _, name := range p.Env {
			branch.AddMetaNode(functions.ScopeEnv, name)
		}
	}
	fmt.Fprint(w, tree.String())
	return nil
}
