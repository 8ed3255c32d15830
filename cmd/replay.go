package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"newsclassifier/internal/clix"
	"newsclassifier/internal/replay"
)

var (
	replayFeed    string
	replayEnqueue bool
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay recorded articles against a running classifier",
	Long: `Reads newline-delimited JSON articles (--file) or the items of an RSS/Atom
feed (--feed) and POSTs each one exactly once to <target>/predict, logging the
status code. With --enqueue the articles go to the asynq queue instead.`,
	Annotations: map[string]string{annotationClassifier: "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		cfg := appInstance.Config.Replay

		target := clix.String(cmd.Flags(), "target", cfg.Target)
		rate := clix.Float64(cmd.Flags(), "rate", cfg.Rate)
		if rate < 0 {
			return fmt.Errorf("--rate must not be negative")
		}
		timeout := clix.Duration(cmd.Flags(), "timeout", cfg.Timeout)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var src replay.Source
		if replayFeed != "" {
			feed, err := replay.FetchFeed(ctx, replayFeed)
			if err != nil {
				return err
			}
			log.Infof("Fetched %d items from %s", feed.Len(), replayFeed)
			src = feed
		} else {
			path := clix.String(cmd.Flags(), "file", cfg.File)
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open request file: %w", err)
			}
			defer f.Close()
			src = replay.NewJSONLSource(f)
		}

		var sender replay.Sender
		if replayEnqueue {
			if err := appInstance.Config.ValidateWorker(); err != nil {
				return fmt.Errorf("invalid queue config: %w", err)
			}
			sender = replay.NewQueueSender(appInstance.JobClient())
			log.Infof("Enqueuing articles via Redis at %s", appInstance.Config.Redis.Address)
		} else {
			sender = replay.NewHTTPSender(target, timeout)
			log.Infof("Replaying articles against %s", target)
		}

		summary, err := replay.New(sender, rate).Run(ctx, src)
		if summary != nil {
			summary.Render(cmd.OutOrStdout())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringP("file", "f", "", "Newline-delimited JSON request file (overrides replay.file)")
	replayCmd.Flags().StringVar(&replayFeed, "feed", "", "RSS/Atom feed URL to replay instead of a file")
	replayCmd.Flags().StringP("target", "t", "", "Base URL of the running service (overrides replay.target)")
	replayCmd.Flags().Float64("rate", 0, "Maximum requests per second, 0 for unlimited (overrides replay.rate)")
	replayCmd.Flags().Duration("timeout", 0, "Per-request timeout (overrides replay.timeout)")
	replayCmd.Flags().BoolVar(&replayEnqueue, "enqueue", false, "Enqueue articles for the worker instead of POSTing them")
	replayCmd.MarkFlagsMutuallyExclusive("file", "feed")
	replayCmd.MarkFlagsMutuallyExclusive("enqueue", "target")
}
