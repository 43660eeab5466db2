package core

import (
	"context"
	"fmt"
	"math"

	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/schema"
)

// fillThreshold catches the archive fill value. Files store it as a float32,
// so after widening it is not bit-identical to -1e31; no real flux comes
// anywhere near this magnitude.
const fillThreshold = -1e30

// assemblyGroup is one output table in the making: the data columns that
// share an epoch axis and belong to the same particle population.
type assemblyGroup struct {
	name     string // output table name, e.g. "het_ions"
	epochVar string
	vars     []string // ordered data columns
}

// assemblyPlan lists the variables one request pulls out of each daily file:
// data columns per output group, plus the energy-bin variables. EPT/HET
// low-latency files put ions and electrons on the same epoch axis, but the
// groups still come out as separate tables.
type assemblyPlan struct {
	groups  []assemblyGroup
	binVars []string
}

// planFor derives the assembly plan from the sensor/level naming conventions.
func planFor(req *schema.Request) (*assemblyPlan, error) {
	if req.Sensor == schema.STEP {
		plan := &assemblyPlan{groups: []assemblyGroup{{
			name:     string(req.Sensor),
			epochVar: "EPOCH",
			vars:     schema.StepParams(req.Level),
		}}}
		for _, prefix := range schema.StepBinPrefixes(req.Level) {
			plan.binVars = append(plan.binVars, binVarNames(prefix)...)
		}
		return plan, nil
	}

	layout, ok := schema.LayoutFor(req.Sensor, req.Level)
	if !ok {
		return nil, schema.NewConfigError("no variable layout for sensor %s level %s", req.Sensor, req.Level)
	}

	ionVars := groupVars(layout.IonPrefix, layout)
	if layout.HasAlpha {
		ionVars = append(ionVars, groupVars("Alpha", layout)...)
	}
	ionVars = append(ionVars, qualityVars(req.Level, "")...)

	electronVars := groupVars(layout.ElectronPrefix, layout)
	electronVars = append(electronVars, qualityVars(req.Level, layout.EpochSuffix())...)

	plan := &assemblyPlan{groups: []assemblyGroup{
		{name: string(req.Sensor) + "_ions", epochVar: "EPOCH", vars: ionVars},
		{name: string(req.Sensor) + "_electrons", epochVar: layout.ElectronEpoch, vars: electronVars},
	}}

	plan.binVars = append(plan.binVars, binVarNames(layout.IonPrefix+"_Bins")...)
	if layout.HasAlpha {
		plan.binVars = append(plan.binVars, binVarNames("Alpha_Bins")...)
	}
	plan.binVars = append(plan.binVars, binVarNames(layout.ElectronPrefix+"_Bins")...)
	return plan, nil
}

// groupVars lists the data variables of one particle group.
func groupVars(prefix string, layout schema.SpeciesLayout) []string {
	vars := []string{prefix + "_Flux", prefix + "_" + layout.ErrorSuffix}
	if layout.HasRate {
		vars = append(vars, prefix+"_Rate")
	}
	return vars
}

// qualityVars lists the per-group quality and timing variables. Level-2 files
// carry a delta-epoch and quality flags per epoch axis, suffixed like the
// epoch variable itself; low-latency files carry a single shared quality
// flag that lands in every group's table.
func qualityVars(level schema.Level, suffix string) []string {
	if level == schema.LowLatency {
		return []string{"QUALITY_FLAG"}
	}
	return []string{"DELTA_EPOCH" + suffix, "QUALITY_FLAG" + suffix, "QUALITY_BITMASK" + suffix}
}

// binVarNames lists the three variables describing one set of energy bins.
func binVarNames(prefix string) []string {
	return []string{prefix + "_Text", prefix + "_Low_Energy", prefix + "_Width"}
}

// Assembler folds the daily files of a request into one multi-day series.
type Assembler struct {
	Sync    *Synchronizer
	Decoder contract.Decoder
}

// NewAssembler builds an assembler over a synchronizer and a file decoder.
func NewAssembler(sync *Synchronizer, decoder contract.Decoder) *Assembler {
	return &Assembler{Sync: sync, Decoder: decoder}
}

// Assemble resolves, decodes and concatenates every day of the request.
// Days that cannot be resolved or decoded become gaps; the series is empty
// (never nil) when no day succeeds. Energy-bin variables come from the first
// day that decodes, since channel definitions are stable within one
// sensor/level combination.
func (a *Assembler) Assemble(ctx context.Context, req *schema.Request) (*schema.AssembledSeries, error) {
	plan, err := planFor(req)
	if err != nil {
		return nil, err
	}

	series := &schema.AssembledSeries{
		Blocks:  make(map[string]*schema.Block, len(plan.groups)),
		BinVars: make(map[string]*schema.Array, len(plan.binVars)),
	}
	for _, group := range plan.groups {
		series.Blocks[group.name] = &schema.Block{
			EpochVar: group.epochVar,
			Order:    group.vars,
			Columns:  make(map[string]*schema.Array, len(group.vars)),
		}
	}

	haveBins := false
	for _, day := range req.Days() {
		desc, err := a.Sync.ResolveDay(ctx, req, day)
		if err != nil {
			if !schema.IsDayFailure(err) {
				return nil, err
			}
			contract.LogWarn("skipping day "+day.Format(schema.DateFormat), err)
			series.MissingDays = append(series.MissingDays, day)
			continue
		}

		dayFile, err := a.Decoder.Decode(desc.LocalPath)
		if err == nil {
			err = a.foldDay(series, plan, dayFile)
		}
		if err != nil {
			if !schema.IsDayFailure(err) {
				return nil, err
			}
			contract.LogWarn("skipping day "+day.Format(schema.DateFormat), err)
			series.MissingDays = append(series.MissingDays, day)
			continue
		}

		if !haveBins {
			for _, name := range plan.binVars {
				if arr, ok := dayFile.Var(name); ok {
					series.BinVars[name] = arr
				}
			}
			haveBins = true
		}
		series.Files = append(series.Files, desc)
	}
	return series, nil
}

// foldDay appends one decoded day to every block of the series. All blocks
// are checked before anything is appended, so a structural mismatch degrades
// the whole day to a gap instead of leaving blocks half-updated.
func (a *Assembler) foldDay(series *schema.AssembledSeries, plan *assemblyPlan, dayFile *schema.DayFile) error {
	for _, group := range plan.groups {
		if err := checkBlock(series.Blocks[group.name], dayFile); err != nil {
			return &schema.DecodeError{Path: dayFile.Path, Err: err}
		}
	}
	for _, group := range plan.groups {
		appendBlock(series.Blocks[group.name], dayFile)
	}
	return nil
}

// checkBlock verifies that a day file carries every variable of a block with
// consistent record counts and widths.
func checkBlock(block *schema.Block, dayFile *schema.DayFile) error {
	epochs, ok := dayFile.Var(block.EpochVar)
	if !ok || epochs.Ints == nil {
		return fmt.Errorf("epoch variable %s missing", block.EpochVar)
	}
	for _, name := range block.Order {
		arr, ok := dayFile.Var(name)
		if !ok || arr.Floats == nil {
			return fmt.Errorf("variable %s missing", name)
		}
		if arr.Records() != len(epochs.Ints) {
			return fmt.Errorf("variable %s has %d records, epoch %s has %d",
				name, arr.Records(), block.EpochVar, len(epochs.Ints))
		}
		if col, exists := block.Columns[name]; exists && col.Width != arr.Width {
			return fmt.Errorf("variable %s changed width from %d to %d", name, col.Width, arr.Width)
		}
	}
	return nil
}

// appendBlock concatenates one day's records onto a block. Records whose
// epoch does not advance past the last kept sample are dropped, so the file
// overlap at day boundaries keeps the earlier day's sample.
func appendBlock(block *schema.Block, dayFile *schema.DayFile) {
	epochs, _ := dayFile.Var(block.EpochVar)

	skip := 0
	if n := len(block.Epochs); n > 0 {
		last := block.Epochs[n-1]
		for skip < len(epochs.Ints) && epochs.Ints[skip] <= last {
			skip++
		}
	}
	if len(epochs.Ints)-skip == 0 {
		return
	}

	for _, name := range block.Order {
		arr, _ := dayFile.Var(name)
		col, exists := block.Columns[name]
		if !exists {
			col = &schema.Array{Name: name, Width: arr.Width}
			block.Columns[name] = col
		}
		for _, v := range arr.Floats[skip*arr.Width:] {
			if v <= fillThreshold {
				v = math.NaN()
			}
			col.Floats = append(col.Floats, v)
		}
	}
	block.Epochs = append(block.Epochs, epochs.Ints[skip:]...)
}
