package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/partflow/internal/classification"
	"github.com/Veraticus/partflow/internal/ingest"
	"github.com/Veraticus/partflow/internal/model"
	"github.com/Veraticus/partflow/internal/rules"
	"github.com/Veraticus/partflow/internal/storage"
)

// RenderTable lays out rows under a header with aligned columns.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	lines := []string{renderRow(headers, TableHeaderStyle)}
	for _, row := range rows {
		lines = append(lines, renderRow(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderReport formats the end-of-run audit.
func RenderReport(r *ingest.Report) string {
	s := r.Stats
	var b strings.Builder

	mode := "persisted"
	if r.DryRun {
		mode = "dry run, nothing persisted"
	}

	fmt.Fprintf(&b, "Run:       %s (%s)\n", r.ID, mode)
	fmt.Fprintf(&b, "Source:    %s\n", r.Source)
	fmt.Fprintf(&b, "Duration:  %s\n\n", r.Duration().Round(time.Millisecond))
	fmt.Fprintf(&b, "  • Processed: %d\n", s.Processed)
	fmt.Fprintf(&b, "  • Accepted:  %s\n", SuccessStyle.Render(fmt.Sprint(s.Accepted)))
	fmt.Fprintf(&b, "  • Rejected:  %d\n", s.Rejected)
	if s.MalformedRecords > 0 {
		fmt.Fprintf(&b, "  • Malformed: %s\n", WarningStyle.Render(fmt.Sprint(s.MalformedRecords)))
	}
	if s.Collapsed > 0 {
		fmt.Fprintf(&b, "  • Duplicates collapsed: %d\n", s.Collapsed)
	}
	if !r.DryRun {
		fmt.Fprintf(&b, "  • Rows affected: %d\n", s.Persisted)
	}

	b.WriteString("\n" + BoldStyle.Render("Rejected by reason") + "\n")
	reasonRows := make([][]string, 0, len(s.RejectedBy))
	for _, reason := range model.AllRejectReasons() {
		reasonRows = append(reasonRows, []string{string(reason), fmt.Sprint(s.RejectedBy[reason])})
	}
	b.WriteString(RenderTable([]string{"Reason", "Count"}, reasonRows) + "\n")

	b.WriteString("\n" + BoldStyle.Render("Accepted by category") + "\n")
	if len(s.AcceptedBy) == 0 {
		b.WriteString(SubtleStyle.Render("none") + "\n")
	} else {
		categories := make([]model.Category, 0, len(s.AcceptedBy))
		for c := range s.AcceptedBy {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool {
			if s.AcceptedBy[categories[i]] != s.AcceptedBy[categories[j]] {
				return s.AcceptedBy[categories[i]] > s.AcceptedBy[categories[j]]
			}
			return categories[i] < categories[j]
		})
		rows := make([][]string, len(categories))
		for i, c := range categories {
			rows[i] = []string{string(c), string(c.ComponentType()), fmt.Sprint(s.AcceptedBy[c])}
		}
		b.WriteString(RenderTable([]string{"Category", "Type", "Count"}, rows) + "\n")
	}

	for _, f := range s.SkippedFiles {
		b.WriteString("\n" + FormatWarning(fmt.Sprintf("Skipped %s: %s", f.Name, f.Reason)))
	}
	for _, br := range r.Batches {
		if br.Error != "" {
			b.WriteString("\n" + FormatError(fmt.Sprintf("Batch %d (%d records) rolled back: %s", br.Index, br.Size, br.Error)))
		}
	}

	title := "Ingestion Complete"
	if s.Accepted == 0 {
		title = "Ingestion Complete: nothing accepted"
	}
	return RenderBox(ChartIcon+" "+title, strings.TrimRight(b.String(), "\n"))
}

// RenderComponents formats catalog rows.
func RenderComponents(components []model.Component) string {
	rows := make([][]string, len(components))
	for i, c := range components {
		price := "unknown"
		if c.Price > 0 {
			price = fmt.Sprintf("%s %.2f", c.Currency, c.Price)
		}
		rows[i] = []string{string(c.Type), c.Brand, c.Model, price, c.LastUpdated.Format("2006-01-02")}
	}
	return RenderTable([]string{"Type", "Brand", "Model", "Price", "Updated"}, rows)
}

// RenderScores formats a detection score table, best first.
func RenderScores(scores []classification.Score) string {
	sorted := make([]classification.Score, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	rows := make([][]string, len(sorted))
	for i, s := range sorted {
		inRange := ""
		if s.PriceInRange {
			inRange = SuccessIcon
		}
		rows[i] = []string{
			string(s.Category), fmt.Sprint(s.Score), fmt.Sprint(s.RequiredHits), fmt.Sprint(s.PatternHits),
			fmt.Sprint(s.SpecHits), fmt.Sprint(s.ExcludedHits), inRange,
		}
	}
	return RenderTable([]string{"Category", "Score", "Required", "Pattern", "Spec", "Excluded", "Price"}, rows)
}

// RenderResult formats a single validation outcome.
func RenderResult(r classification.Result) string {
	if r.Accepted {
		return FormatSuccess(fmt.Sprintf("%s accepted (brand %s)", r.Category, r.Brand))
	}
	return FormatError(fmt.Sprintf("%s rejected: %s (%s)", r.Category, r.Reason, r.Detail))
}

// RenderRules formats the rule catalog.
func RenderRules(catalog *rules.Catalog) string {
	all := catalog.Rules()
	rows := make([][]string, len(all))
	for i, r := range all {
		price := "any"
		if r.PriceRange.Max > 0 {
			price = fmt.Sprintf("%.0f-%.0f", r.PriceRange.Min, r.PriceRange.Max)
		}
		rows[i] = []string{
			string(r.Category), string(r.ComponentType()), price,
			fmt.Sprint(len(r.Required)), fmt.Sprint(len(r.Excluded)), fmt.Sprint(len(r.Patterns())),
			strings.Join(r.Brands, ", "),
		}
	}
	return RenderTable([]string{"Category", "Type", "Price (PHP)", "Required", "Excluded", "Patterns", "Brands"}, rows)
}

// RenderRuns formats persisted run audits.
func RenderRuns(runs []storage.RunRecord) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		mode := ""
		if r.DryRun {
			mode = "dry run"
		}
		rows[i] = []string{
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), fmt.Sprint(r.Processed),
			fmt.Sprint(r.Accepted), fmt.Sprint(r.Rejected), fmt.Sprint(r.Persisted),
			fmt.Sprint(r.FailedBatches), mode,
		}
	}
	return RenderTable([]string{"Run", "Started", "Processed", "Accepted", "Rejected", "Persisted", "Failed", ""}, rows)
}

// RenderCounts formats per-type row counts in schema order.
func RenderCounts(counts map[model.ComponentType]int, lastUpdated time.Time) string {
	rows := make([][]string, 0, len(counts)+1)
	total := 0
	for _, t := range model.AllComponentTypes() {
		rows = append(rows, []string{string(t), fmt.Sprint(counts[t])})
		total += counts[t]
	}
	rows = append(rows, []string{BoldStyle.Render("total"), BoldStyle.Render(fmt.Sprint(total))})

	updated := "never"
	if !lastUpdated.IsZero() {
		updated = lastUpdated.Local().Format("2006-01-02 15:04")
	}
	heading := TitleStyle.UnsetMargins().Render(FolderIcon + " Catalog")
	return heading + "\n" + RenderTable([]string{"Type", "Rows"}, rows) + "\n" + SubtleStyle.Render("Last updated: "+updated)
}
