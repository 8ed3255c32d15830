package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"newsclassifier/internal/models"
)

var doctorURL string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, the classifier, and optionally a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}
		cfg := appInstance.Config

		fmt.Fprintf(out, "%s config valid (classifier=%s, labels=%d, listen=%s)\n",
			color.GreenString("OK"), cfg.Classifier.Type, appInstance.Labels.Len(), cfg.Addr())

		probe := models.ArticleRequest{
			Source:      "doctor",
			URL:         "http://localhost/doctor",
			Title:       "Doctor probe",
			Description: "The bank said its customers were unaffected.",
		}
		res, err := appInstance.Classifier.Classify(ctx, probe)
		if err != nil {
			fmt.Fprintf(out, "%s classifier: %v\n", color.RedString("FAIL"), err)
			return fmt.Errorf("classifier check failed: %w", err)
		}
		fmt.Fprintf(out, "%s classifier answered %q\n", color.GreenString("OK"), res.Label)

		if doctorURL == "" {
			return nil
		}
		resp, err := resty.New().SetTimeout(5 * time.Second).R().
			SetContext(ctx).
			SetHeader("accept", "application/json").
			Get(doctorURL + "/")
		if err != nil {
			fmt.Fprintf(out, "%s server %s: %v\n", color.RedString("FAIL"), doctorURL, err)
			return fmt.Errorf("server check failed: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			fmt.Fprintf(out, "%s server %s answered %d\n", color.RedString("FAIL"), doctorURL, resp.StatusCode())
			return fmt.Errorf("server check failed: status %d", resp.StatusCode())
		}
		fmt.Fprintf(out, "%s server %s answered %s\n", color.GreenString("OK"), doctorURL, resp.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVar(&doctorURL, "url", "", "Base URL of a running server to probe with GET /")
}
