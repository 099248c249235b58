package main

import (
	"fmt"
	"math/rand"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	setInput      string
	metadataInput string
	setOutput     string
}

type splitCmdConfig struct {
	*setCmdConfig
	splitOutput      string
	splitProbability int
	seed             int64
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage sets of data",
		Long:  `Copy sets of data from one location or format to another`,
		Run: func(cmd *cobra.Command, args []string) {
			fr, err := config.Read()
			exitOn(err, 2)
			config.Logf("Writing %d samples...", fr.Count())
			exitOn(writeFrame(config.Context(), config, config.setOutput, fr), 3)
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", dataLocationHelp+" with the input set (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", dataLocationHelp+" to dump the output set (defaults to STDOUT in CSV)")
	cmd.AddCommand(splitCmd(config))
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

// Read reads the input set with every feature in the metadata.
func (scc *setCmdConfig) Read() (*dataset.Frame, error) {
	if err := scc.Validate(); err != nil {
		return nil, err
	}
	scc.Logf("Reading features from metadata at %s...", scc.metadataInput)
	features, err := yaml.ReadFeaturesFromFile(scc.metadataInput)
	if err != nil {
		return nil, err
	}
	return readFrame(scc.Context(), scc, scc.setInput, features, "")
}

func splitCmd(setConfig *setCmdConfig) *cobra.Command {
	config := &splitCmdConfig{setCmdConfig: setConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a set into an output set and a split set, taking each sample to the split set with a given probability`,
		Run: func(cmd *cobra.Command, args []string) {
			exitOn(config.Validate(), 1)
			fr, err := config.Read()
			exitOn(err, 2)
			output, split := config.Split(fr)
			config.Logf("Writing %d samples to the output set and %d to the split set...", output.Count(), split.Count())
			exitOn(writeFrame(config.Context(), config, config.setOutput, output), 3)
			exitOn(writeFrame(config.Context(), config, config.splitOutput, split), 4)
			config.Logf("Done")
		},
	}
	cmd.Flags().StringVarP(&(config.splitOutput), "split-output", "s", "", dataLocationHelp+" to dump the split set (required)")
	cmd.Flags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that a sample of the set will be assigned to the split set")
	cmd.Flags().Int64Var(&(config.seed), "seed", 1, "seed for assigning samples to sets")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability < 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability must be between 0 and 100, got %d", scc.splitProbability)
	}
	return nil
}

// Split assigns every row of fr to the output or the split frame.
func (scc *splitCmdConfig) Split(fr *dataset.Frame) (*dataset.Frame, *dataset.Frame) {
	randomizer := rand.New(rand.NewSource(scc.seed))
	var output, split []int
	for i := 0; i < fr.Count(); i++ {
		if randomizer.Intn(100) < scc.splitProbability {
			split = append(split, i)
		} else {
			output = append(output, i)
		}
	}
	return fr.Subset(output), fr.Subset(split)
}
