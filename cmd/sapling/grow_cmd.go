package main

import (
	"fmt"
	"io/ioutil"

	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/spf13/cobra"
	yamlv2 "gopkg.in/yaml.v2"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput       string
	validationInput string
	metadataInput   string
	paramsInput     string
	output          string
	classFeature    string
	params          sapling.Params
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig, params: sapling.DefaultParams()}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a binary classification tree from a set of data to predict a certain categorical feature.`,
		Run: func(cmd *cobra.Command, args []string) {
			exitOn(config.Validate(), 1)
			p, err := config.Params(cmd)
			exitOn(err, 1)
			config.Logf("Reading features from metadata at %s...", config.metadataInput)
			features, err := yaml.ReadFeaturesFromFile(config.metadataInput)
			exitOn(err, 2)
			if !defined(features, config.classFeature) {
				exitOn(fmt.Errorf("class feature '%s' is not defined", config.classFeature), 3)
			}
			trainingSet, err := readFrame(config.Context(), config, config.dataInput, features, config.classFeature)
			exitOn(err, 4)
			opts := []sapling.TrainOption{sapling.WithLogger(config)}
			if config.validationInput != "" {
				validationSet, err := readFrame(config.Context(), config, config.validationInput, features, config.classFeature)
				exitOn(err, 4)
				opts = append(opts, sapling.WithValidation(validationSet))
			}
			m, err := sapling.Train(config.Context(), trainingSet, p, opts...)
			if err != nil {
				exitOn(fmt.Errorf("growing the tree: %v", err), 5)
			}
			config.Logf("%v", m.Tree)
			exitOn(saveModel(config.Context(), config, config.output, m), 6)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", dataLocationHelp+" with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVar(&(config.validationInput), "validation", "", dataLocationHelp+" with data to test the grown tree against")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input (required)")
	cmd.PersistentFlags().StringVar(&(config.paramsInput), "params", "", "path to a YML file with training parameters, overridden by flags")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", modelLocationHelp+" to which the model will be written (defaults to STDOUT in JSON)")
	cmd.PersistentFlags().StringVarP(&(config.classFeature), "class-feature", "c", "", "name of the two-level categorical feature the generated tree should predict (required)")
	cmd.PersistentFlags().IntVar(&(config.params.MaxDepth), "max-depth", sapling.DefaultMaxDepth, "depth at which nodes become leaves")
	cmd.PersistentFlags().IntVar(&(config.params.MinRows), "min-rows", sapling.DefaultMinRows, "minimum number of training rows per leaf")
	cmd.PersistentFlags().StringVar(&(config.params.Criterion), "criterion", config.params.Criterion, "impurity criterion: gini or entropy")
	cmd.PersistentFlags().IntVar(&(config.params.Workers), "workers", 1, "number of nodes resolved concurrently")
	cmd.PersistentFlags().Int64Var(&(config.params.Seed), "seed", 0, "seed for breaking ties between columns at random")
	cmd.PersistentFlags().BoolVar(&(config.params.RandomTies), "random-ties", false, "break ties between columns at random instead of choosing the first")
	cmd.PersistentFlags().StringVar(&(config.params.UnseenLevels), "unseen-levels", "right", "where levels a decision never saw go when scoring: right, left or majority")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if gcc.classFeature == "" {
		return fmt.Errorf("required class-feature flag was not set")
	}
	return nil
}

var paramFlags = []string{"max-depth", "min-rows", "criterion", "workers", "seed", "random-ties", "unseen-levels"}

/*
Params returns the training parameters: those read from the params file, if
given, with the values of the flags set on the command line on top.
*/
func (gcc *growCmdConfig) Params(cmd *cobra.Command) (sapling.Params, error) {
	if gcc.paramsInput == "" {
		return gcc.params, gcc.params.Validate()
	}
	data, err := ioutil.ReadFile(gcc.paramsInput)
	if err != nil {
		return gcc.params, fmt.Errorf("reading params file: %v", err)
	}
	p := sapling.DefaultParams()
	if err = yamlv2.UnmarshalStrict(data, &p); err != nil {
		return gcc.params, fmt.Errorf("parsing params file %s: %v", gcc.paramsInput, err)
	}
	flags := cmd.Flags()
	for _, name := range paramFlags {
		if !flags.Changed(name) {
			continue
		}
		switch name {
		case "max-depth":
			p.MaxDepth = gcc.params.MaxDepth
		case "min-rows":
			p.MinRows = gcc.params.MinRows
		case "criterion":
			p.Criterion = gcc.params.Criterion
		case "workers":
			p.Workers = gcc.params.Workers
		case "seed":
			p.Seed = gcc.params.Seed
		case "random-ties":
			p.RandomTies = gcc.params.RandomTies
		case "unseen-levels":
			p.UnseenLevels = gcc.params.UnseenLevels
		}
	}
	return p, p.Validate()
}

func defined(features []feature.Feature, name string) bool {
	for _, f := range features {
		if f.Name() == name {
			return true
		}
	}
	return false
}
