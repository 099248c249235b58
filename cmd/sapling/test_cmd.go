package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*rootCmdConfig
	modelInput string
	dataInput  string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the accuracy of a tree against a test data set holding the features the tree reads and the one it predicts`,
		Run: func(cmd *cobra.Command, args []string) {
			exitOn(config.Validate(), 1)
			m, err := loadModel(config.Context(), config, config.modelInput)
			exitOn(err, 2)
			testingSet, err := readFrame(config.Context(), config, config.dataInput, modelFeatures(m), m.Label().Name())
			exitOn(err, 3)
			config.Logf("Testing tree against testset with %d samples...", testingSet.Count())
			accuracy, err := m.Test(config.Context(), testingSet)
			if err != nil {
				exitOn(fmt.Errorf("testing tree: %v", err), 4)
			}
			config.Logf("Done")
			fmt.Printf("%f success rate on %d samples\n", accuracy, testingSet.Count())
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", dataLocationHelp+" with data to test the tree against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.modelInput), "model", "t", "", modelLocationHelp+" from which the model to test will be read (required)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	return nil
}
