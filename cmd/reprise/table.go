package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// cellLimit keeps free-text columns (titles, notes) from blowing out the
// table width on narrow terminals.
const cellLimit = 48

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers, len(headers), false))
	for _, row := range rows {
		tw.AppendRow(toRow(row, len(headers), true))
	}
	tw.SetColumnConfigs(columnConfigs(len(headers), aligns))
	return tw.Render()
}

func toRow(cells []string, width int, clip bool) table.Row {
	row := make(table.Row, width)
	for i := 0; i < width; i++ {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		if clip {
			value = clipCell(value)
		}
		row[i] = value
	}
	return row
}

func columnConfigs(columns int, aligns []columnAlignment) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	return configs
}

func clipCell(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= cellLimit {
		return value
	}
	return value[:cellLimit-3] + "..."
}
