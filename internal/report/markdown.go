package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/samvad-hq/rover-photos/internal/collector"
	"github.com/samvad-hq/rover-photos/internal/domain"
)

type markdownWriter struct {
	out io.Writer
}

func (w *markdownWriter) Rover(info domain.RoverInfo) error {
	md := markdown.NewMarkdown(w.out)
	md.H1(info.Name)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Status", string(info.Status)},
			{"Launch Date", info.LaunchDate.String()},
			{"Landing Date", info.LandingDate.String()},
			{"Max Sol", strconv.Itoa(info.MaxSol)},
			{"Max Date", info.MaxDate.String()},
			{"Total Photos", strconv.Itoa(info.NumberOfPhotos)},
		},
	})

	if len(info.SolDescriptions) > 0 {
		md.PlainText("")
		md.H2("Sols")
		md.PlainText("")
		rows := make([][]string, 0, len(info.SolDescriptions))
		for _, sd := range info.SolDescriptions {
			rows = append(rows, []string{
				strconv.Itoa(sd.Sol),
				sd.EarthDate.String(),
				strconv.Itoa(sd.TotalPhotos),
				fmt.Sprint(len(sd.Cameras)),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Sol", "Earth Date", "Photos", "Cameras"},
			Rows:   rows,
		})
	}
	return md.Build()
}

func (w *markdownWriter) Photos(rover string, sol int, photos []domain.PhotoReference) error {
	md := markdown.NewMarkdown(w.out)
	md.H1(fmt.Sprintf("%s sol %d", rover, sol))
	md.PlainText("")
	if len(photos) == 0 {
		md.PlainText("No photos.")
		return md.Build()
	}
	rows := make([][]string, 0, len(photos))
	for _, p := range photos {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Camera.Name,
			p.EarthDate.String(),
			"[image](" + p.ImageURL + ")",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Camera", "Earth Date", "Image"},
		Rows:   rows,
	})
	return md.Build()
}

func (w *markdownWriter) SyncResults(results []collector.TargetResult) error {
	md := markdown.NewMarkdown(w.out)
	md.H1("Sync Results")
	md.PlainText("")
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.TargetID, r.Rover, joinInts(r.Sols),
			strconv.Itoa(r.Photos), strconv.Itoa(r.Fresh), strconv.Itoa(r.Published),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Target", "Rover", "Sols", "Photos", "New", "Published"},
		Rows:   rows,
	})
	return md.Build()
}
