package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/inputsample"
	"github.com/pbanos/sapling/dataset/npy"
	"github.com/pbanos/sapling/feature"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	modelInput  string
	dataInput   string
	output      string
	explain     bool
	probability bool
	interactive bool
}

type stdoutFeatureValueRequester struct{}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the class of every sample in a set",
		Long:  `Use the loaded tree to predict the class of every sample in a set of data holding the features the tree reads`,
		Run: func(cmd *cobra.Command, args []string) {
			exitOn(config.Validate(), 1)
			m, err := loadModel(config.Context(), config, config.modelInput)
			exitOn(err, 2)
			if config.interactive {
				exitOn(config.predictInteractively(m), 5)
				return
			}
			set, err := readFrame(config.Context(), config, config.dataInput, m.Features(), "")
			exitOn(err, 3)
			w, err := createOutput(config.output)
			exitOn(err, 4)
			defer w.Close()
			config.Logf("Predicting the class of %d samples...", set.Count())
			if strings.HasSuffix(config.output, ".npy") {
				err = config.writeNpy(config.Context(), w, m, set)
			} else {
				err = config.writeCSV(config.Context(), w, m, set)
			}
			exitOn(err, 5)
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", dataLocationHelp+" with the samples to predict (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.modelInput), "model", "t", "", modelLocationHelp+" from which the model will be read (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a CSV (.csv) or NumPy (.npy) file to write the predictions to (defaults to STDOUT in CSV)")
	cmd.PersistentFlags().BoolVarP(&(config.explain), "explain", "e", false, "add the conditions each sample met to reach its leaf (CSV only)")
	cmd.PersistentFlags().BoolVarP(&(config.probability), "probability", "p", false, "add the probability of the second class (CSV only)")
	cmd.PersistentFlags().BoolVar(&(config.interactive), "interactive", false, "predict the class of a single sample answering questions about its features on STDIN")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.modelInput == "" {
		return fmt.Errorf("required model flag was not set")
	}
	if strings.HasSuffix(pcc.output, ".npy") && (pcc.explain || pcc.probability) {
		return fmt.Errorf("explain and probability flags are not available for NumPy output")
	}
	if pcc.interactive && (pcc.dataInput != "" || pcc.output != "") {
		return fmt.Errorf("input and output flags are not available for interactive predictions")
	}
	return nil
}

// predictInteractively asks on STDIN for the features the tree tests on the
// way to a leaf and prints its prediction.
func (pcc *predictCmdConfig) predictInteractively(m *sapling.Model) error {
	sample := inputsample.New(os.Stdin, m.Features(), stdoutFeatureValueRequester{})
	leaf, conditions, err := m.Tree.Resolve(inputsample.Column(sample, m.Features()))
	if err != nil {
		return err
	}
	r := m.Tree.Records[leaf]
	reason := "always"
	if len(conditions) > 0 {
		reason = "because " + strings.Join(conditions, " and ")
	}
	fmt.Printf("Predicted %s with %d of %d training samples agreeing, %s\n", m.Tree.ClassName(r.Class), r.Counts[r.Class], r.Rows(), reason)
	return nil
}

func (stdoutFeatureValueRequester) RequestValueFor(f feature.Feature) error {
	switch f := f.(type) {
	case *feature.CategoricalFeature:
		fmt.Printf("Please provide the sample's %s:\n(valid values are %v)\n", f.Name(), f.Levels())
	case *feature.NumericFeature:
		fmt.Printf("Please provide the sample's %s:\n(valid values are real numbers)\n", f.Name())
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}

func (stdoutFeatureValueRequester) RejectValueFor(f feature.Feature, value string) error {
	switch f := f.(type) {
	case *feature.CategoricalFeature:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide one of %v.\n", value, f.Name(), f.Levels())
	default:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide a real number.\n", value, f.Name())
	}
	return nil
}

// writeNpy writes the class index predicted for every row as a column.
func (pcc *predictCmdConfig) writeNpy(ctx context.Context, w io.Writer, m *sapling.Model, set *dataset.Frame) error {
	classes, err := m.Score(ctx, set)
	if err != nil {
		return err
	}
	values := make([]float64, len(classes))
	for i, c := range classes {
		values[i] = float64(c)
	}
	return npy.WriteColumn(w, values)
}

func (pcc *predictCmdConfig) writeCSV(ctx context.Context, w io.Writer, m *sapling.Model, set *dataset.Frame) error {
	cw := csv.NewWriter(w)
	header := []string{m.Label().Name()}
	if pcc.probability {
		header = append(header, "probability")
	}
	if pcc.explain {
		header = append(header, "explanation")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	rows, err := m.Rows(set)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if err = ctx.Err(); err != nil {
			return err
		}
		conditions, c, err := m.Explain(row)
		if err != nil {
			return fmt.Errorf("predicting sample %d: %v", i, err)
		}
		record := []string{m.Tree.ClassName(c)}
		if pcc.probability {
			p, _ := m.Probability(row)
			record = append(record, strconv.FormatFloat(p, 'g', -1, 64))
		}
		if pcc.explain {
			record = append(record, strings.Join(conditions, " and "))
		}
		if err = cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
