package engine

// XPPerLevel is the experience span of a single level. The progress bar shows
// xp % XPPerLevel out of XPPerLevel, so levels must stay derived from the same
// formula everywhere.
const XPPerLevel = 100

// LevelForXP returns the level for a total experience amount: xp/100 + 1.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// ProgressToNextLevel returns how far into the current level the user is (0..99).
func ProgressToNextLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp % XPPerLevel
}
