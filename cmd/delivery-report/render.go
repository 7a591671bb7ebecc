package main

import (
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Nonato2008/rapidoEseguro/internal/domain/delivery"
	"github.com/Nonato2008/rapidoEseguro/internal/domain/pricing"
)

const sheet = "Entregas"

var columns = []string{
	"Entrega", "Pedido", "Tipo", "Status",
	"Valor distância", "Valor peso", "Acréscimo", "Taxa extra", "Desconto", "Valor final",
	"Criada em",
}

// moneyColumns is the number of price columns following the four text ones.
const moneyColumns = 6

func row(v *delivery.View) []string {
	p := v.Price
	return []string{
		v.ID, v.OrderID, string(v.Urgency), string(v.Status),
		money(p.DistanceCost), money(p.WeightCost), money(p.Surcharge),
		money(p.ExtraFee), money(p.Discount), money(p.FinalPrice),
		v.CreatedAt.UTC().Format(time.DateTime),
	}
}

// createdAt is the creation time cell; rows without one stay empty.
func createdAt(v *delivery.View) any {
	if v.CreatedAt.IsZero() {
		return ""
	}
	return v.CreatedAt.UTC()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(pricing.MoneyPlaces)
}

func writeTable(w io.Writer, views []delivery.View) error {
	rows := make([][]string, len(views))
	for i := range views {
		rows[i] = row(&views[i])
	}

	table := tablewriter.NewWriter(w)
	table.Header(headerCells()...)
	if err := table.Bulk(rows); err != nil {
		return errors.Wrap(err, "append rows")
	}
	if err := table.Render(); err != nil {
		return errors.Wrap(err, "render table")
	}
	return nil
}

func headerCells() []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = c
	}
	return out
}

// writeWorkbook writes one sheet with a bold header row. Money cells are
// numbers formatted with two decimals.
func writeWorkbook(w io.Writer, views []delivery.View) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "name sheet")
	}
	header := headerCells()
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i := range views {
		v := &views[i]
		p := v.Price
		cells := []any{
			v.ID, v.OrderID, string(v.Urgency), string(v.Status),
			p.DistanceCost.InexactFloat64(), p.WeightCost.InexactFloat64(), p.Surcharge.InexactFloat64(),
			p.ExtraFee.InexactFloat64(), p.Discount.InexactFloat64(), p.FinalPrice.InexactFloat64(),
			createdAt(v),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return errors.Wrapf(err, "write delivery %s", v.ID)
		}
	}

	if err := styleSheet(f, len(views)); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func styleSheet(f *excelize.File, rows int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "header style")
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return errors.Wrap(err, "style header")
	}
	if rows == 0 {
		return nil
	}

	// Built-in format 2 is "0.00".
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return errors.Wrap(err, "money style")
	}
	from, err := excelize.CoordinatesToCellName(5, 2)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	to, err := excelize.CoordinatesToCellName(4+moneyColumns, rows+1)
	if err != nil {
		return errors.Wrap(err, "cell name")
	}
	if err := f.SetCellStyle(sheet, from, to, amount); err != nil {
		return errors.Wrap(err, "style amounts")
	}
	return nil
}
