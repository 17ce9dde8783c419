package algo

import "github.com/huangsam/peloton/schema"

// pointsAt returns the points for a zero-based rank, or zero past the end of the table.
func pointsAt(table []int, rank int) int {
	if rank < 0 || rank >= len(table) {
		return 0
	}
	return table[rank]
}

// SprintPoints returns the points of the first n finishers of a stage of the given type.
func SprintPoints(stageType schema.StageType, n int) []int {
	table := schema.StagePointsTable(stageType)
	points := make([]int, n)
	for rank := range points {
		points[rank] = pointsAt(table, rank)
	}
	return points
}

// MountainPoints returns the points of the first n finishers of a stage with the given checkpoints.
// Every climb awards its category table by stage finishing rank; sprints award nothing.
func MountainPoints(checkpoints []schema.CheckpointType, n int) []int {
	points := make([]int, n)
	for _, cp := range checkpoints {
		if !cp.IsClimb() {
			continue
		}
		table := schema.ClimbPointsTable(cp)
		for rank := range points {
			points[rank] += pointsAt(table, rank)
		}
	}
	return points
}
