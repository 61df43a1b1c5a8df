package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/network"
)

var attrsCmd = &cobra.Command{
	Use:   "attrs <file.toml>",
	Short: "Show the contents of an attribute file",
	Long:  "Parse an attribute file and print its values as a tree, with the type of every value.",
	Args:  cobra.ExactArgs(1),
	RunE:  showAttrs,
}

func init() {
	rootCmd.AddCommand(attrsCmd)
}

func showAttrs(cmd *cobra.Command, args []string) error {
	file := args[0]
	tbl, err := network.LoadAttrFile(appFs, file)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), describeError(err, file))
		return err
	}
	tree := treeprint.NewWithRoot(file)
	addTable(tree, tbl)
	fmt.Fprint(cmd.OutOrStdout(), tree.String())
	return nil
}

func addTable(tree treeprint.Tree, tbl *attrs.Table) {
	for k, v := range tbl.All() {
		key := attrs.TableKey(k)
		if v.Kind == attrs.KindTable {
			addTable(tree.AddBranch(key), v.Table)
			continue
		}
		tree.AddMetaNode(v.TypeName(), key+" = "+v.String())
	}
}
