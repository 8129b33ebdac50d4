package domain

// DetectionThreshold is the score at which a page counts as a forum.
const DetectionThreshold = 3

// Signal is one matched detection heuristic.
type Signal struct {
	Name   string
	Weight int
	Note   string
}

// DetectResult is the outcome of weighted forum detection.
type DetectResult struct {
	IsDiscourse    bool
	Score          int
	Threshold      int
	MatchedSignals []Signal
}
