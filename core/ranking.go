package core

// RankRiders returns the rider ids of the stage ordered by raw elapsed time.
// Equal times keep registration order. A stage that is still preparing ranks nobody.
func (e *Engine) RankRiders(stageID int) ([]int, error) {
	f, err := e.field(stageID)
	if err != nil {
		return nil, err
	}
	return f.riders(), nil
}
