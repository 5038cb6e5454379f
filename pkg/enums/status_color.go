package enums

import "fmt"

// StatusColor is the badge palette a resident status can use. The colors are
// purely presentational; the kiosk UI maps them to its own styles.
type StatusColor string

const (
	StatusColorRed    StatusColor = "red"
	StatusColorBlue   StatusColor = "blue"
	StatusColorGreen  StatusColor = "green"
	StatusColorYellow StatusColor = "yellow"
	StatusColorPurple StatusColor = "purple"
	StatusColorGray   StatusColor = "gray"
)

var validStatusColors = []StatusColor{
	StatusColorRed,
	StatusColorBlue,
	StatusColorGreen,
	StatusColorYellow,
	StatusColorPurple,
	StatusColorGray,
}

// String implements fmt.Stringer.
func (c StatusColor) String() string {
	return string(c)
}

// IsValid reports whether the value is a known StatusColor.
func (c StatusColor) IsValid() bool {
	for _, candidate := range validStatusColors {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseStatusColor converts raw input into a StatusColor.
func ParseStatusColor(value string) (StatusColor, error) {
	for _, candidate := range validStatusColors {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid status color %q", value)
}
