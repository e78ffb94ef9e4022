package music

// The engine's mutable state. Only Engine.transition and Restore write it.

type trigger int

const (
	beatTrigger trigger = iota
	resetTrigger
	keyRequest
	scaleRequest
)

type keyState struct {
	currentRoot      int
	targetRoot       int
	scaleIndex       int
	targetScaleIndex int
	degree           int
}

type transitionFlags struct {
	keyChangePending   bool
	scaleChangePending bool
	playingTransition  bool
	hasRootAfter       bool
	rootAfter          int
}
