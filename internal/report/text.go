package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samvad-hq/rover-photos/internal/collector"
	"github.com/samvad-hq/rover-photos/internal/domain"
)

type textWriter struct {
	out io.Writer
}

func (w *textWriter) Rover(info domain.RoverInfo) error {
	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", info.Name)
	fmt.Fprintf(tw, "Status:\t%s\n", info.Status)
	fmt.Fprintf(tw, "Launched:\t%s\n", info.LaunchDate)
	fmt.Fprintf(tw, "Landed:\t%s\n", info.LandingDate)
	fmt.Fprintf(tw, "Max sol:\t%d (%s)\n", info.MaxSol, info.MaxDate)
	fmt.Fprintf(tw, "Photos:\t%d\n", info.NumberOfPhotos)
	fmt.Fprintf(tw, "Sols with photos:\t%d\n", len(info.SolDescriptions))
	return tw.Flush()
}

func (w *textWriter) Photos(rover string, sol int, photos []domain.PhotoReference) error {
	fmt.Fprintf(w.out, "%s sol %d: %d photo(s)\n", rover, sol, len(photos))
	if len(photos) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCAMERA\tEARTH DATE\tIMAGE")
	for _, p := range photos {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Camera.Name, p.EarthDate, p.ImageURL)
	}
	return tw.Flush()
}

func (w *textWriter) SyncResults(results []collector.TargetResult) error {
	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tROVER\tSOLS\tPHOTOS\tNEW\tPUBLISHED")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n", r.TargetID, r.Rover, joinInts(r.Sols), r.Photos, r.Fresh, r.Published)
	}
	return tw.Flush()
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}
