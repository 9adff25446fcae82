package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rsilvagit/resumatch/internal/model"
	"github.com/rsilvagit/resumatch/internal/notify"
	"github.com/rsilvagit/resumatch/internal/screen"
	"github.com/rsilvagit/resumatch/internal/view"
)

// ResultWriter defines how a list of jobs is presented or published.
type ResultWriter interface {
	WriteJobs(jobs []model.Job) error
}

// chipsPerRow is how many skills a match row shows before "+N".
const chipsPerRow = 3

// ConsolePrinter writes screens to a terminal as formatted tables.
type ConsolePrinter struct {
	w io.Writer
}

// NewConsolePrinter returns a printer writing to w, or to stdout when w is
// nil.
func NewConsolePrinter(w io.Writer) *ConsolePrinter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsolePrinter{w: w}
}

// WriteJobs prints jobs as a table.
func (cp *ConsolePrinter) WriteJobs(jobs []model.Job) error {
	tw := tabwriter.NewWriter(cp.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tSALARY\tREQUIREMENTS\tCREATED")
	fmt.Fprintln(tw, "--\t-----\t-------\t--------\t------\t------------\t-------")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			j.ID, j.Title, j.Company, j.Location, j.Salary,
			strings.Join(j.Requirements, ", "), date(j.Created()))
	}
	return tw.Flush()
}

// WriteJobPage prints the jobs screen: banner, table and pager, or the
// empty state when there is nothing to show.
func (cp *ConsolePrinter) WriteJobPage(page view.JobPage, banner string, empty screen.Empty) error {
	cp.banner(banner)
	if page.Total == 0 {
		cp.empty(empty)
		return nil
	}
	if err := cp.WriteJobs(page.Rows); err != nil {
		return err
	}
	cp.pager(page.Page, page.Pages, page.Total)
	return nil
}

// WriteMatchPage prints the match scores screen: banner, summary cards,
// table and pager.
func (cp *ConsolePrinter) WriteMatchPage(page view.MatchPage, activeJobs int, banner string, empty screen.Empty) error {
	cp.banner(banner)
	fmt.Fprintf(cp.w, "Total Matches: %d   Average Score: %.1f%%   Top Matches (80%%+): %d   Active Jobs: %d\n\n",
		page.Summary.Total, page.Summary.Average, page.Summary.TopMatches, activeJobs)

	if page.Summary.Total == 0 {
		cp.empty(empty)
		return nil
	}

	tw := tabwriter.NewWriter(cp.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CANDIDATE\tJOB\tSCORE\tRATING\tTECHNICAL\tEXPERIENCE\tSKILLS\tSCORED")
	fmt.Fprintln(tw, "---------\t---\t-----\t------\t---------\t----------\t------\t------")
	for _, m := range page.Rows {
		band := view.BandFor(m.OverallScore)
		fmt.Fprintf(tw, "%s\t%s\t%.0f%%\t%s\t%.0f%%\t%s\t%s\t%s\n",
			m.DisplayCandidate(), m.DisplayJobTitle(), m.OverallScore, band.Label,
			m.TechnicalMatch, m.DisplayExperience(), chips(view.TopSkills(m.Skills)), m.DisplayScoredAt())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	cp.pager(page.Page, page.Pages, page.Summary.Total)
	return nil
}

// WriteHealth prints the gateway reachability.
func (cp *ConsolePrinter) WriteHealth(apiURL, state string, checkedAt time.Time) {
	at := "never"
	if !checkedAt.IsZero() {
		at = checkedAt.Local().Format(time.DateTime)
	}
	fmt.Fprintf(cp.w, "Gateway: %s\nState:   %s\nChecked: %s\n", apiURL, state, at)
}

// WriteMessage prints a single line, such as an upload form message.
func (cp *ConsolePrinter) WriteMessage(msg string) {
	fmt.Fprintln(cp.w, msg)
}

// Send prints a notification. ConsolePrinter is a notify.Sink.
func (cp *ConsolePrinter) Send(_ context.Context, n notify.Notification) error {
	_, err := fmt.Fprintf(cp.w, "[%s] %s\n", strings.ToUpper(string(n.Severity)), n.Text)
	return err
}

func (cp *ConsolePrinter) banner(text string) {
	if text != "" {
		fmt.Fprintf(cp.w, "! %s\n\n", text)
	}
}

func (cp *ConsolePrinter) empty(e screen.Empty) {
	fmt.Fprintln(cp.w, e.Title)
	if e.Hint != "" {
		fmt.Fprintln(cp.w, e.Hint)
	}
}

func (cp *ConsolePrinter) pager(page, pages, total int) {
	if pages == 0 {
		return
	}
	fmt.Fprintf(cp.w, "\nPage %d of %d (%d rows)\n", page+1, pages, total)
}

func chips(skills []string) string {
	shown, more := view.Chips(skills, chipsPerRow)
	s := strings.Join(shown, ", ")
	if more > 0 {
		s += fmt.Sprintf(" +%d", more)
	}
	return s
}

func date(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format(time.DateOnly)
}
