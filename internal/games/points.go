package games

// PointsForRound returns the points a correct guess earns in the given round.
func PointsForRound(round int) int {
	switch {
	case round <= 10:
		return 10
	case round <= 20:
		return 25
	case round <= 30:
		return 50
	default:
		return 100
	}
}
