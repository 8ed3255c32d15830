package cmd

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"newsclassifier/internal/app"
	"newsclassifier/internal/config"
)

// annotationClassifier set to "none" on a command means it never classifies
// locally, so the App is built without a classifier.
const annotationClassifier = "classifier"

var (
	cfgFile string

	// closeApp releases the App built by PersistentPreRunE, if any.
	closeApp = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "newsclassifier",
	Short: "News article category classifier",
	Long: `newsclassifier scores news articles against a fixed set of categories.
It serves the classifier over HTTP, replays recorded articles against a running
instance, and processes articles from an asynq queue.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is given, print help.
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Parent() == nil {
			return nil
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		var opts []app.Option
		validate := cfg.Validate
		if cmd.Annotations[annotationClassifier] == "none" {
			opts = append(opts, app.WithoutClassifier())
			validate = cfg.ValidateReplay
		}
		if err := validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := config.ConfigureLogging(cfg); err != nil {
			return err
		}

		appInstance, err := app.NewApp(cfg, opts...)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		closeApp = func() {
			if err := appInstance.Close(); err != nil {
				log.WithError(err).Warn("Error while closing application")
			}
			closeApp = func() {}
		}

		// Store the app instance in the command's context
		cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.config/newsclassifier/config.yaml)")
}

func Execute() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command tree and always releases the App afterwards.
func run(ctx context.Context, args []string) error {
	defer func() { closeApp() }()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		// This should not happen if PersistentPreRunE ran successfully
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}
