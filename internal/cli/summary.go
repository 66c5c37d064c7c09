package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/layoutguide/internal/model"
	"github.com/Veraticus/layoutguide/internal/pipeline"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

// RenderCategoryTable renders net counts per category.
func RenderCategoryTable(counts []model.CategoryCount) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(SubtleStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("Category", "Nets")

	total := 0
	for _, c := range counts {
		t.Row(CategoryStyle(c.Category).Render(c.Category), strconv.Itoa(c.Count))
		total += c.Count
	}
	t.Row(BoldStyle.Render("Total"), BoldStyle.Render(strconv.Itoa(total)))

	return t.Render()
}

// RenderResult renders the completion box for one generated guide.
func RenderResult(result *pipeline.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "  • Netlist: %s\n", result.NetlistPath)
	fmt.Fprintf(&b, "  • Nets: %d\n", len(result.NetNames))
	fmt.Fprintf(&b, "  • Output: %s", result.OutputPath)
	if stat, err := os.Stat(result.OutputPath); err == nil {
		fmt.Fprintf(&b, " (%s)", humanize.Bytes(uint64(stat.Size())))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  • Time taken: %s\n", result.Duration().Round(time.Millisecond))

	if result.Plain {
		b.WriteString(FormatWarning("Formatting failed; the guide was written without styling") + "\n")
	}
	if !result.TemplateValid {
		b.WriteString(FormatWarning("Template is missing columns: "+strings.Join(result.MissingColumns, ", ")) + "\n")
	}

	if len(result.Summary) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderCategoryTable(result.Summary))
	}

	return RenderBox(ChartIcon+" Layout Guide Generated", strings.TrimRight(b.String(), "\n"))
}

// FormatRunLine renders one history entry.
func FormatRunLine(run model.Run) string {
	return fmt.Sprintf("%s  %s  %d nets  %s → %s",
		SubtleStyle.Render(run.ID),
		humanize.Time(run.StartedAt),
		run.NetCount,
		run.NetlistPath,
		run.OutputPath,
	)
}
