package pages

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/briangreenhill/novelreader/meionovel"
)

// writeCards appends a titled list of novels to b
func writeCards(b *strings.Builder, heading string, cards []meionovel.NovelCard) {
	fmt.Fprintf(b, "## %s\n", heading)
	if len(cards) == 0 {
		b.WriteString("No novels found.\n\n")
		return
	}
	for _, c := range cards {
		b.WriteString(cardLine(c))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func cardLine(c meionovel.NovelCard) string {
	line := fmt.Sprintf("- %s [%s]", orDash(c.Title), c.Slug)
	var extra []string
	if latest := c.Latest(); latest != "" {
		extra = append(extra, latest)
	}
	if c.Rating != "" {
		extra = append(extra, "★ "+c.Rating.String())
	}
	if c.Status != "" {
		extra = append(extra, c.Status.String())
	}
	if len(extra) > 0 {
		line += " · " + strings.Join(extra, " · ")
	}
	return line
}

func writePagination(b *strings.Builder, p *meionovel.Pagination) {
	if p == nil || p.TotalPages == 0 {
		return
	}
	fmt.Fprintf(b, "Page %d of %d", p.CurrentPage, p.TotalPages)
	if p.Total > 0 {
		fmt.Fprintf(b, " (%d novels)", p.Total)
	}
	b.WriteString("\n")
}

// errorState is what a page shows when its API call failed
func errorState(what, msg string) string {
	return fmt.Sprintf("Failed to load %s: %s\n", what, msg)
}

// ago formats a timestamp relative to now the way the history list does
func ago(t, now time.Time) string {
	if now.Sub(t) < time.Minute {
		return "just now"
	}
	if now.Sub(t) > 7*24*time.Hour {
		return t.Format("Jan 2, 2006")
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// pageArg parses an optional 1-based page number
func pageArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 1, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: page must be a positive number, got %q", ErrUsage, args[i])
	}
	return n, nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
