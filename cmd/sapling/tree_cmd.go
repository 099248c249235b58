package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pbanos/sapling/tree"
	"github.com/pbanos/sapling/tree/graph"
	"github.com/spf13/cobra"
)

type treeCmdConfig struct {
	*rootCmdConfig
	modelInput string
	rules      bool
	render     string
	format     string
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show a tree",
		Long:  `Show a tree as text, as a list of rules or render it as a graph`,
		Run: func(cmd *cobra.Command, args []string) {
			exitOn(config.Validate(), 1)
			m, err := loadModel(config.Context(), config, config.modelInput)
			exitOn(err, 2)
			if config.render != "" {
				exitOn(config.Render(m.Tree), 3)
				return
			}
			if config.rules {
				for _, r := range m.Tree.Rules() {
					fmt.Println(r)
				}
				return
			}
			fmt.Println(m.Tree)
			fmt.Printf("%d records, %d leaves, depth %d\n", len(m.Tree.Records), m.Tree.Leaves(), m.Tree.Depth())
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.modelInput), "model", "t", "", modelLocationHelp+" from which the model to show will be read (required)")
	cmd.PersistentFlags().BoolVarP(&(config.rules), "rules", "r", false, "list the rule leading to every leaf instead of the tree")
	cmd.PersistentFlags().StringVar(&(config.render), "render", "", "path to a file to render the tree to with graphviz")
	cmd.PersistentFlags().StringVar(&(config.format), "format", "", "format of the rendered graph: dot, png, svg or jpg (defaults to the render file extension)")
	return cmd
}

func (tcc *treeCmdConfig) Validate() error {
	if tcc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	if tcc.format != "" && tcc.render == "" {
		return fmt.Errorf("format flag requires the render flag")
	}
	return nil
}

// Render draws the tree on the render file.
func (tcc *treeCmdConfig) Render(t *tree.Tree) error {
	name := tcc.format
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(tcc.render), ".")
	}
	format, err := graph.FormatNamed(name)
	if err != nil {
		return err
	}
	w, err := createOutput(tcc.render)
	if err != nil {
		return err
	}
	defer w.Close()
	tcc.Logf("Rendering tree to %s...", tcc.render)
	return graph.Render(t, format, w)
}
