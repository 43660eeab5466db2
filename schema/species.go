package schema

// SpeciesLayout describes how one sensor/level combination names its variables
// inside the daily files. The archive uses different particle prefixes and
// epoch dependencies per sensor and per processing level, so the assembler and
// reshaper resolve a layout once per request instead of inspecting variables
// at runtime.
type SpeciesLayout struct {
	IonPrefix      string // "Ion", "H" or "Prot" depending on sensor/level
	ElectronPrefix string // "Electron" or "Ele"
	ElectronEpoch  string // epoch variable the electron group depends on
	HasAlpha       bool   // EPT carries an alpha-particle group
	ErrorSuffix    string // "Uncertainty" (l2) or "Flux_Sigma" (ll)
	HasRate        bool   // l2 files carry count-rate variables
}

// speciesLayouts maps the four EPT/HET sensor/level combinations to their
// variable naming conventions. STEP uses a flat parameter list instead.
var speciesLayouts = map[Sensor]map[Level]SpeciesLayout{
	EPT: {
		LowLatency: {IonPrefix: "Prot", ElectronPrefix: "Ele", ElectronEpoch: "EPOCH", HasAlpha: true, ErrorSuffix: "Flux_Sigma"},
		Level2:     {IonPrefix: "Ion", ElectronPrefix: "Electron", ElectronEpoch: "EPOCH_1", HasAlpha: true, ErrorSuffix: "Uncertainty", HasRate: true},
	},
	HET: {
		LowLatency: {IonPrefix: "H", ElectronPrefix: "Ele", ElectronEpoch: "EPOCH", ErrorSuffix: "Flux_Sigma"},
		Level2:     {IonPrefix: "H", ElectronPrefix: "Electron", ElectronEpoch: "EPOCH_4", ErrorSuffix: "Uncertainty", HasRate: true},
	},
}

// LayoutFor returns the species layout for an EPT or HET sensor/level
// combination. The second return value is false for STEP and for
// unrecognized inputs.
func LayoutFor(sensor Sensor, level Level) (SpeciesLayout, bool) {
	levels, ok := speciesLayouts[sensor]
	if !ok {
		return SpeciesLayout{}, false
	}
	layout, ok := levels[level]
	return layout, ok
}

// EpochSuffix returns the numeric suffix of the electron epoch variable
// (e.g. "_4" for "EPOCH_4"), or "" when the electron group shares the main
// EPOCH axis. Quality and delta-epoch variables of the electron group carry
// the same suffix.
func (sl SpeciesLayout) EpochSuffix() string {
	const main = "EPOCH"
	if sl.ElectronEpoch == main {
		return ""
	}
	return sl.ElectronEpoch[len(main):]
}

// StepParams returns the flat list of STEP data variables per level.
func StepParams(level Level) []string {
	if level == LowLatency {
		return []string{"Integral_Flux", "Ion_Flux", "Integral_Flux_Sigma", "Ion_Flux_Sigma"}
	}
	return []string{
		"Integral_Flux", "Magnet_Flux", "Integral_Rate",
		"Magnet_Rate", "Magnet_Uncertainty", "Integral_Uncertainty",
	}
}

// StepBinPrefixes returns the energy-bin variable prefixes for STEP per level,
// keyed by the species name the channel table reports them under.
func StepBinPrefixes(level Level) map[string]string {
	if level == LowLatency {
		return map[string]string{
			"Integral": "Integral_Bins",
			"Ion":      "Ion_Bins",
		}
	}
	return map[string]string{
		"STEP":        "Bins",
		"STEP_Sector": "Sector_Bins",
	}
}
