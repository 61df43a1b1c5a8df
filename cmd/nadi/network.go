package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xlab/treeprint"

	"github.com/Nadi-System/nadi-core-sub000/network"
)

var networkCmd = &cobra.Command{
	Use:   "network [file]",
	Short: "Show the structure of a network",
	Long: `Load a network and print it as a tree, one per outlet, with every node
under the node it drains into. The file defaults to --network.`,
	Args: cobra.MaximumNArgs(1),
	RunE: showNetwork,
}

func init() {
	networkCmd.Flags().StringSlice("show", nil, "Node attributes to print next to each node")
	networkCmd.Flags().Bool("edges", false, "Print the edge list instead of the tree")

	rootCmd.AddCommand(networkCmd)
}

func showNetwork(cmd *cobra.Command, args []string) error {
	file := viper.GetString("network")
	if len(args) == 1 {
		file = args[0]
	}
	if file == "" {
		return fmt.Errorf("no network file given")
	}
	show, _ := cmd.Flags().GetStringSlice("show")
	edges, _ := cmd.Flags().GetBool("edges")

	logger := newLogger(cmd)
	net, err := loadNetwork(file, logger)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), describeError(err, ""))
		return err
	}

	w := cmd.OutOrStdout()
	if edges {
		for _, e := range net.Edges() {
			fmt.Fprintln(w, e)
		}
	} else {
		for _, outlet := range net.Outlets() {
			tree := treeprint.NewWithRoot(nodeLabel(outlet, show))
			addInputs(tree, net, outlet, show)
			fmt.Fprint(w, tree.String())
		}
	}
	printNetworkSummary(cmd.ErrOrStderr(), net)
	return nil
}

func addInputs(tree treeprint.Tree, net *network.Network, n *network.Node, show []string) {
	for _, i := range n.Inputs() {
		in := net.Node(i)
		if len(in.Inputs()) == 0 {
			tree.AddNode(nodeLabel(in, show))
			continue
		}
		addInputs(tree.AddBranch(nodeLabel(in, show)), net, in, show)
	}
}

func nodeLabel(n *network.Node, show []string) string {
	var parts []string
	for _, name := range show {
		if v, ok := n.Attr(name); ok {
			parts = append(parts, name+" = "+v.String())
		}
	}
	if len(parts) == 0 {
		return n.Name()
	}
	return n.Name() + " (" + strings.Join(parts, ", ") + ")"
}

func printNetworkSummary(w io.Writer, net *network.Network) {
	fmt.Fprintf(w, "%d nodes, %d edges, %d outlets\n", net.Len(), len(net.Edges()), len(net.Outlets()))
}
