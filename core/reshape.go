package core

import (
	"fmt"
	"time"

	"github.com/solartools/epdload/schema"
)

// Reshape turns an assembled series into per-table columnar output and the
// energy-channel metadata. Vector variables widen into one column per
// channel, named "{Variable}_{index}"; scalar variables keep their name.
func Reshape(series *schema.AssembledSeries, req *schema.Request) ([]*schema.SpeciesTable, schema.ChannelTable, error) {
	plan, err := planFor(req)
	if err != nil {
		return nil, nil, err
	}

	var tables []*schema.SpeciesTable
	for _, group := range plan.groups {
		block, ok := series.Blocks[group.name]
		if !ok {
			continue
		}
		tables = append(tables, reshapeBlock(block, group.name))
	}
	return tables, channelTable(series, req), nil
}

// reshapeBlock widens one block into a time-indexed table.
func reshapeBlock(block *schema.Block, name string) *schema.SpeciesTable {
	table := &schema.SpeciesTable{
		Name:    name,
		Epochs:  make([]time.Time, len(block.Epochs)),
		Columns: make(map[string][]float64),
	}
	for i, epoch := range block.Epochs {
		table.Epochs[i] = schema.EpochToTime(epoch)
	}

	rows := block.Rows()
	for _, varName := range block.Order {
		col, ok := block.Columns[varName]
		if !ok {
			continue
		}
		for c := range col.Width {
			colName := varName
			if col.Width > 1 {
				colName = fmt.Sprintf("%s_%d", varName, c)
			}
			values := make([]float64, rows)
			for r := range rows {
				values[r] = col.Floats[r*col.Width+c]
			}
			table.ColumnNames = append(table.ColumnNames, colName)
			table.Columns[colName] = values
		}
	}
	return table
}

// channelTable extracts the per-species energy channels from the bin
// variables captured during assembly.
func channelTable(series *schema.AssembledSeries, req *schema.Request) schema.ChannelTable {
	prefixes := binPrefixes(req)
	channels := make(schema.ChannelTable, len(prefixes))
	for species, prefix := range prefixes {
		if chans := channelsFrom(series.BinVars, prefix); len(chans) > 0 {
			channels[species] = chans
		}
	}
	return channels
}

// binPrefixes maps each species name to its energy-bin variable prefix.
func binPrefixes(req *schema.Request) map[string]string {
	if req.Sensor == schema.STEP {
		return schema.StepBinPrefixes(req.Level)
	}
	layout, ok := schema.LayoutFor(req.Sensor, req.Level)
	if !ok {
		return nil
	}
	prefixes := map[string]string{
		layout.IonPrefix:      layout.IonPrefix + "_Bins",
		layout.ElectronPrefix: layout.ElectronPrefix + "_Bins",
	}
	if layout.HasAlpha {
		prefixes["Alpha"] = "Alpha_Bins"
	}
	return prefixes
}

// channelsFrom builds the channel list for one bin prefix. Missing label or
// edge variables leave the corresponding fields zero-valued rather than
// dropping the species.
func channelsFrom(binVars map[string]*schema.Array, prefix string) []schema.Channel {
	text := binVars[prefix+"_Text"]
	low := binVars[prefix+"_Low_Energy"]
	width := binVars[prefix+"_Width"]

	count := 0
	if text != nil && len(text.Strings) > count {
		count = len(text.Strings)
	}
	if low != nil && len(low.Floats) > count {
		count = len(low.Floats)
	}
	if width != nil && len(width.Floats) > count {
		count = len(width.Floats)
	}

	channels := make([]schema.Channel, 0, count)
	for i := range count {
		ch := schema.Channel{Index: i}
		if text != nil && i < len(text.Strings) {
			ch.Label = text.Strings[i]
		}
		if low != nil && i < len(low.Floats) {
			ch.LowerEdgeMeV = low.Floats[i]
		}
		if width != nil && i < len(width.Floats) {
			ch.WidthMeV = width.Floats[i]
		}
		channels = append(channels, ch)
	}
	return channels
}
