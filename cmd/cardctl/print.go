package main

import (
	"io"

	"github.com/alovak/cardflow-cards/cards/models"
	"github.com/alovak/cardflow-cards/internal/cardfmt"
	"github.com/jedib0t/go-pretty/v6/table"
)

func renderCards(w io.Writer, list []*models.Card, showFull bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Number", "Expiry", "Holder"})
	for _, c := range list {
		number := c.CardNumber
		if !showFull {
			number = cardfmt.Mask(number)
		}
		t.AppendRow(table.Row{c.ID, number, c.ExpiryDate, c.CardHolder})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(list)})
	t.Render()
}
