package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// labelsCmd represents the labels command
var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the configured labels in enumeration order",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		for i, label := range appInstance.Labels.Labels() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i+1, label)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}
