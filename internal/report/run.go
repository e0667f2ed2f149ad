package report

import (
	"io"
	"maps"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/rodaine/table"

	"github.com/masahif/rovercrawler/internal/storage"
)

// WriteRun prints a recorded crawl run with its page counts by outcome
func WriteRun(w io.Writer, run *storage.RunInfo, pages map[string]int, errCount int, p *Palette) {
	if p == nil {
		p = Plain()
	}

	_, _ = p.Root.Fprintln(w, "LAST RECORDED RUN:")

	tbl := table.New("Field", "Value").WithWriter(w)
	tbl.WithHeaderFormatter(p.Dim.SprintfFunc())
	tbl.AddRow("Run", run.ID)
	tbl.AddRow("Root URL", run.RootURL)
	tbl.AddRow("Status", run.Status)
	tbl.AddRow("Started", formatTime(run.StartedAt))
	if run.FinishedAt.Valid {
		tbl.AddRow("Finished", formatTime(run.FinishedAt.Time))
		for _, row := range statRows(run.Stats) {
			tbl.AddRow(row[0], row[1])
		}
	}
	for _, outcome := range slices.Sorted(maps.Keys(pages)) {
		tbl.AddRow("Pages "+outcome, humanize.Comma(int64(pages[outcome])))
	}
	tbl.AddRow("Recorded errors", humanize.Comma(int64(errCount)))
	tbl.Print()
}
