package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfare/pkg/domain"
	"github.com/aretw0/wayfare/pkg/resolve"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCase creates a Caser per call; Casers are not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// InferenceMarkdown renders an inference report as a markdown document.
func InferenceMarkdown(message string, r resolve.Report) string {
	var b strings.Builder
	b.WriteString("# Route inference\n\n")
	fmt.Fprintf(&b, "> %s\n\n", message)
	fmt.Fprintf(&b, "Normalized: `%s`\n\n", r.Normalized)

	b.WriteString("## Mentions\n\n")
	if len(r.Mentions) == 0 {
		b.WriteString("_No known city mentioned._\n\n")
	} else {
		b.WriteString("| City | Offset |\n|---|---|\n")
		for _, m := range r.Mentions {
			fmt.Fprintf(&b, "| %s | %d |\n", m.City, m.Offset)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Roles\n\n")
	fmt.Fprintf(&b, "- **%s**: %s\n", titleCase(string(domain.SlotSource)), orDash(r.Inference.Source))
	fmt.Fprintf(&b, "- **%s**: %s\n", titleCase(string(domain.SlotDestination)), orDash(r.Inference.Destination))
	return b.String()
}

// ConversationMarkdown renders a stored conversation as a markdown document.
func ConversationMarkdown(conv *domain.Conversation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Conversation `%s`\n\n", conv.ID)
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Status | %s |\n", titleCase(strings.ReplaceAll(string(conv.Status), "_", " ")))
	fmt.Fprintf(&b, "| Source | %s |\n", orDash(conv.Slots.Source))
	fmt.Fprintf(&b, "| Destination | %s |\n", orDash(conv.Slots.Destination))
	fmt.Fprintf(&b, "| Turns | %d |\n", conv.Turns)
	fmt.Fprintf(&b, "| Updated | %s |\n", conv.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	return b.String()
}

func orDash(c domain.City) string {
	if c.IsZero() {
		return "-"
	}
	return c.String()
}
