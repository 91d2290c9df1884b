package palette

var defaultColors = map[string]string{
	"VVD":  "#ff7709",
	"FvD":  "#841818",
	"GL":   "#50c401",
	"DENK": "#41bac2",
	"D66":  "#01af40",
	"CDA":  "#007b5f",
	"50P":  "#92278f",
	"PvdA": "#C0392B",
	"SGP":  "#024a90",
	"CU":   "#012466",
	"SP":   "#fe0000",
	"PvdD": "#006c2e",
	"PVV":  "#212F3D",

	"male":   "#0000ff",
	"female": "#ffc0cb",

	"13-17": "#641E16",
	"18-24": "#512E5F",
	"25-34": "#154360",
	"35-44": "#0E6251",
	"45-54": "#145A32",
	"55-64": "#7D6608",
	"65+":   "#784212",

	"Drenthe":       "#AED6F1",
	"Friesland":     "#AF7AC5",
	"Gelderland":    "#E74C3C",
	"Groningen":     "#ABEBC6",
	"Limburg":       "#E74C3C",
	"North Brabant": "#E74C3C",
	"Noord-Brabant": "#E74C3C",
	"Noord-Holland": "#239B56",
	"Utrecht":       "#F4D03F",
	"Zeeland":       "#D7BDE2",
	"Zuid-Holland":  "#EB984E",
	"Overijssel":    "#B7950B",
	"Flevoland":     "#EB984E",
}

var defaultParties = []string{"50P", "CDA", "CU", "D66", "DENK", "FvD", "GL", "PVV", "PvdA", "PvdD", "SGP", "SP", "VVD"}

// Default returns the color table the dashboard ships with
func Default() *Static {
	return NewStatic(defaultColors)
}

// DefaultParties returns the parties listed in the navigation menu when no palette file overrides them
func DefaultParties() []string {
	return append([]string(nil), defaultParties...)
}
