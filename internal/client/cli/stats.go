package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
)

// Stats prints the client's own request and session counters.
func (a *App) Stats(_ context.Context, _ []string) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			}
			fmt.Fprintf(tw, "%s\t%s\t%g\n", mf.GetName(), strings.Join(labels, ","), v)
		}
	}
	return tw.Flush()
}
