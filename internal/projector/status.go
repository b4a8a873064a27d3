package projector

// Category is one row of the status table: a health code with its label and display color.
type Category struct {
	Code  int
	Label string
	Color string
}

const (
	NoStatusLabel = "no status"
	NoStatusColor = "#000000"
)

// statusTable is the single source for classification, coloring and histogram order.
var statusTable = [...]Category{
	{Code: 10, Label: "OK", Color: "#50C804"},
	{Code: 20, Label: "Hashrate loss", Color: "#7499FF"},
	{Code: 30, Label: "Warning", Color: "#FFC859"},
	{Code: 40, Label: "Minor issue", Color: "#FFBF00"},
	{Code: 50, Label: "Major issue", Color: "#E97659"},
	{Code: 60, Label: "Critical state", Color: "#EF1818"},
}

// Categories returns the status table in its fixed order.
func Categories() []Category {
	out := make([]Category, len(statusTable))
	copy(out[:], statusTable[:])
	return out
}

// LookupStatus finds the table row for code. Nil and unknown codes report false.
func LookupStatus(code *int) (Category, bool) {
	if code == nil {
		return Category{}, false
	}
	for _, c := range statusTable {
		if c.Code == *code {
			return c, true
		}
	}
	return Category{}, false
}

// ClassifyStatus returns the category label for code, or NoStatusLabel.
func ClassifyStatus(code *int) string {
	if c, ok := LookupStatus(code); ok {
		return c.Label
	}
	return NoStatusLabel
}

// ColorForStatus returns the category color for code, or NoStatusColor.
func ColorForStatus(code *int) string {
	if c, ok := LookupStatus(code); ok {
		return c.Color
	}
	return NoStatusColor
}

// ColorForLabel returns the color bound to a category label.
func ColorForLabel(label string) string {
	for _, c := range statusTable {
		if c.Label == label {
			return c.Color
		}
	}
	return NoStatusColor
}
