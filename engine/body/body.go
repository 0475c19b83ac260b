// Package body defines the body locations injuries attach to and the
// weighted hit-location tables used to pick them.
package body

import "github.com/pkg/errors"

// Location is a target zone on a person's body.
type Location int

const (
	Generic Location = iota
	Head
	Chest
	Abdomen
	LeftArm
	LeftHand
	RightArm
	RightHand
	LeftLeg
	LeftFoot
	RightLeg
	RightFoot
	Internal
)

var locationNames = [...]string{
	Generic:   "body",
	Head:      "head",
	Chest:     "chest",
	Abdomen:   "abdomen",
	LeftArm:   "left arm",
	LeftHand:  "left hand",
	RightArm:  "right arm",
	RightHand: "right hand",
	LeftLeg:   "left leg",
	LeftFoot:  "left foot",
	RightLeg:  "right leg",
	RightFoot: "right foot",
	Internal:  "internal organs",
}

var locationKeys = [...]string{
	Generic:   "generic",
	Head:      "head",
	Chest:     "chest",
	Abdomen:   "abdomen",
	LeftArm:   "left_arm",
	LeftHand:  "left_hand",
	RightArm:  "right_arm",
	RightHand: "right_hand",
	LeftLeg:   "left_leg",
	LeftFoot:  "left_foot",
	RightLeg:  "right_leg",
	RightFoot: "right_foot",
	Internal:  "internal",
}

// All returns every location in declaration order.
func All() []Location {
	locs := make([]Location, 0, len(locationKeys))
	for l := Generic; l <= Internal; l++ {
		locs = append(locs, l)
	}
	return locs
}

// String returns the display name, e.g. "left arm".
func (l Location) String() string {
	if l < Generic || l > Internal {
		return "unknown"
	}
	return locationNames[l]
}

// Key returns the stable identifier used in campaign files and saves.
func (l Location) Key() string {
	if l < Generic || l > Internal {
		return ""
	}
	return locationKeys[l]
}

// IsLimb reports whether the location is an arm, hand, leg or foot.
func (l Location) IsLimb() bool {
	switch l {
	case LeftArm, LeftHand, RightArm, RightHand, LeftLeg, LeftFoot, RightLeg, RightFoot:
		return true
	}
	return false
}

// IsArm reports whether the location is an arm or a hand.
func (l Location) IsArm() bool {
	switch l {
	case LeftArm, LeftHand, RightArm, RightHand:
		return true
	}
	return false
}

// IsLeg reports whether the location is a leg or a foot.
func (l Location) IsLeg() bool {
	switch l {
	case LeftLeg, LeftFoot, RightLeg, RightFoot:
		return true
	}
	return false
}

// Parent returns the location a hand or foot hangs from, and false for
// every other location.
func (l Location) Parent() (Location, bool) {
	switch l {
	case LeftHand:
		return LeftArm, true
	case RightHand:
		return RightArm, true
	case LeftFoot:
		return LeftLeg, true
	case RightFoot:
		return RightLeg, true
	}
	return Generic, false
}

// ParseLocation maps a key (or display name) back to a Location.
func ParseLocation(s string) (Location, error) {
	for l := Generic; l <= Internal; l++ {
		if locationKeys[l] == s || locationNames[l] == s {
			return l, nil
		}
	}
	return Generic, errors.Errorf("unknown body location %q", s)
}
