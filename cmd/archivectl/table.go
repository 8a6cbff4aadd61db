package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"sitearchive/internal/adminclient"
)

// renderEntries draws the archive list newest first, numbered from 1, with the
// total in the footer.
func renderEntries(entries []adminclient.Entry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Email", "Created"})
	for i, e := range entries {
		tw.AppendRow(table.Row{i + 1, e.Email, e.CreatedAt})
	}
	tw.AppendFooter(table.Row{"", "Total", strconv.Itoa(len(entries))})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft, AlignFooter: text.AlignLeft},
	})
	return tw.Render()
}
