// Package render turns summary results into display documents.
package render

import (
	"strings"

	"minutemic/internal/domain"
)

const (
	LabelTitle        = "Meeting title"
	LabelDate         = "Date"
	LabelParticipants = "Participants"
	LabelSummary      = "Summary"
	LabelKeyPoints    = "Key points"
	LabelActionItems  = "Action items"
	LabelDecisions    = "Decisions"
)

// Render lays out the present fields of r in a fixed order. Absent or empty
// fields produce no block. Items keep their order and are not deduplicated.
func Render(r domain.SummaryResult) domain.DisplayDocument {
	doc := domain.DisplayDocument{Blocks: []domain.Block{}}

	if r.Title != "" {
		doc.Blocks = append(doc.Blocks, domain.Block{Kind: domain.BlockHeading, Label: LabelTitle, Text: r.Title})
	}
	if r.Date != "" {
		doc.Blocks = append(doc.Blocks, domain.Block{Kind: domain.BlockLine, Label: LabelDate, Text: r.Date})
	}
	if len(r.Participants) > 0 {
		doc.Blocks = append(doc.Blocks, domain.Block{Kind: domain.BlockLine, Label: LabelParticipants, Text: strings.Join(r.Participants, ", ")})
	}
	if r.Summary != "" {
		doc.Blocks = append(doc.Blocks, domain.Block{Kind: domain.BlockParagraph, Label: LabelSummary, Text: r.Summary})
	}
	doc.Blocks = appendList(doc.Blocks, LabelKeyPoints, r.KeyPoints)
	doc.Blocks = appendList(doc.Blocks, LabelActionItems, r.ActionItems)
	doc.Blocks = appendList(doc.Blocks, LabelDecisions, r.Decisions)

	return doc
}

func appendList(blocks []domain.Block, label string, items []string) []domain.Block {
	if len(items) == 0 {
		return blocks
	}
	out := make([]string, len(items))
	copy(out, items)
	return append(blocks, domain.Block{Kind: domain.BlockList, Label: label, Items: out})
}

// Markdown renders doc as plain Markdown text.
func Markdown(doc domain.DisplayDocument) string {
	var b strings.Builder
	for i, block := range doc.Blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		switch block.Kind {
		case domain.BlockHeading:
			b.WriteString("# " + block.Text + "\n")
		case domain.BlockLine:
			b.WriteString("**" + block.Label + ":** " + block.Text + "\n")
		case domain.BlockParagraph:
			b.WriteString("## " + block.Label + "\n\n" + block.Text + "\n")
		case domain.BlockList:
			b.WriteString("## " + block.Label + "\n\n")
			for _, item := range block.Items {
				b.WriteString("- " + item + "\n")
			}
		}
	}
	return b.String()
}
