package quote

import "strings"

// Area is the yard selection. The zero value is unset.
type Area string

const (
	AreaUnset Area = ""
	AreaFront Area = "front"
	AreaBack  Area = "back"
	AreaBoth  Area = "both"
)

// AreaOption is one entry of the area selector, in display order.
type AreaOption struct {
	Value Area   `json:"value"`
	Label string `json:"label"`
}

var areaOptions = []AreaOption{
	{Value: AreaUnset, Label: "Select..."},
	{Value: AreaFront, Label: "Front yard"},
	{Value: AreaBack, Label: "Back yard"},
	{Value: AreaBoth, Label: "Both"},
}

// AreaOptions returns the selector options, unset sentinel first.
func AreaOptions() []AreaOption {
	return append([]AreaOption(nil), areaOptions...)
}

// ParseArea maps a submitted value onto an Area. Unknown values map to
// AreaUnset so they fail validation at submit time.
func ParseArea(raw string) Area {
	switch Area(strings.ToLower(strings.TrimSpace(raw))) {
	case AreaFront:
		return AreaFront
	case AreaBack:
		return AreaBack
	case AreaBoth:
		return AreaBoth
	default:
		return AreaUnset
	}
}

// IsSet reports whether a yard has been chosen.
func (a Area) IsSet() bool {
	return a == AreaFront || a == AreaBack || a == AreaBoth
}

// Label returns the human label for the area.
func (a Area) Label() string {
	for _, opt := range areaOptions {
		if opt.Value == a {
			return opt.Label
		}
	}
	return areaOptions[0].Label
}
