package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"newsclassifier/internal/clix"
	"newsclassifier/internal/models"
	"newsclassifier/internal/validator"
	"newsclassifier/pkg/classifier"
)

var classifyJSON bool

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify one article from the command line",
	Long: `Runs the configured classifier on a single article and prints the score
for every label, highlighting the winner. All four article flags are required,
exactly as for POST /predict.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		fields := clix.ArticleFields(cmd.Flags(), validator.RequiredFields...)
		article, err := validator.ValidateFields(fields)
		if err != nil {
			return err
		}

		result, err := appInstance.Classifier.Classify(cmd.Context(), article)
		if err != nil {
			return fmt.Errorf("classification failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if classifyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		renderScores(out, appInstance.Labels, result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringP("source", "s", "", "Article source, e.g. 'BBC Technology'")
	classifyCmd.Flags().StringP("url", "u", "", "Article URL")
	classifyCmd.Flags().StringP("title", "t", "", "Article title")
	classifyCmd.Flags().StringP("description", "d", "", "Article description")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print the /predict response body instead of a table")
}

// renderScores prints one row per label in enumeration order.
func renderScores(w io.Writer, labels classifier.LabelSet, result models.ClassificationResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Label", "Score"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, label := range labels.Labels() {
		score := strconv.FormatFloat(result.Scores[label], 'f', 4, 64)
		if label == result.Label {
			table.Append([]string{color.GreenString(label), color.GreenString(score)})
			continue
		}
		table.Append([]string{label, score})
	}
	table.Render()
	fmt.Fprintf(w, "Label: %s\n", color.New(color.Bold).Sprint(result.Label))
}
