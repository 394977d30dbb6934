package utils

import (
	"fmt"
)

// positionLabels covers the first five draw positions, which use irregular
// English ordinals.
var positionLabels = [...]string{"1st", "2nd", "3rd", "4th", "5th"}

// PositionLabel formats the ordinal label for a zero-based draw index:
// "1st" through "5th", then "6th", "7th", and so on.
func PositionLabel(index int) string {
	if index >= 0 && index < len(positionLabels) {
		return positionLabels[index]
	}
	return fmt.Sprintf("%dth", index+1)
}
