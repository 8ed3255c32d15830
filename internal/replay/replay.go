package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Summary counts what happened to each record.
type Summary struct {
	Sent     int
	Invalid  int
	Failed   int
	Outcomes map[string]int
}

// Replayer pushes every record of a source through a sender.
type Replayer struct {
	sender  Sender
	limiter *rate.Limiter
}

// New builds a Replayer. A perSecond of zero means unlimited.
func New(sender Sender, perSecond float64) *Replayer {
	r := &Replayer{sender: sender}
	if perSecond > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return r
}

// Run replays src until it is exhausted or ctx is cancelled. Per-record
// failures are logged and counted; only source and context errors stop it.
func (r *Replayer) Run(ctx context.Context, src Source) (*Summary, error) {
	summary := &Summary{Outcomes: make(map[string]int)}
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return summary, nil
		}
		if err != nil {
			return summary, err
		}

		if rec.Invalid != nil {
			summary.Invalid++
			log.WithField("line", rec.Line).WithError(rec.Invalid).Warn("Skipping invalid record")
			continue
		}

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return summary, fmt.Errorf("replay interrupted: %w", err)
			}
		}
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("replay interrupted: %w", err)
		}

		outcome, err := r.sender.Send(ctx, rec.Body)
		if err != nil {
			summary.Failed++
			log.WithField("line", rec.Line).WithError(err).Error("Failed to send record")
			continue
		}
		summary.Sent++
		summary.Outcomes[outcome]++
		log.WithFields(log.Fields{"line": rec.Line, "status": outcome}).Info("Replayed record")
	}
}

// Render writes the summary as a table, colouring outcomes by class.
func (s *Summary) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Outcome", "Count"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	outcomes := make([]string, 0, len(s.Outcomes))
	for k := range s.Outcomes {
		outcomes = append(outcomes, k)
	}
	sort.Strings(outcomes)
	for _, o := range outcomes {
		table.Append([]string{colorOutcome(o), fmt.Sprint(s.Outcomes[o])})
	}
	if s.Invalid > 0 {
		table.Append([]string{color.YellowString("invalid json"), fmt.Sprint(s.Invalid)})
	}
	if s.Failed > 0 {
		table.Append([]string{color.RedString("transport error"), fmt.Sprint(s.Failed)})
	}
	table.SetFooter([]string{"Total", fmt.Sprint(s.Sent + s.Invalid + s.Failed)})
	table.Render()
}

func colorOutcome(o string) string {
	switch {
	case o == OutcomeEnqueued || (len(o) == 3 && o[0] == '2'):
		return color.GreenString(o)
	case o == OutcomeRejected || (len(o) == 3 && o[0] == '4'):
		return color.YellowString(o)
	case len(o) == 3 && o[0] == '5':
		return color.RedString(o)
	default:
		return o
	}
}
