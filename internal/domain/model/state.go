package model

type ConversionState string

const (
	StateIdle       ConversionState = "idle"
	StateResolving  ConversionState = "resolving"
	StateConverting ConversionState = "converting"
	StateDone       ConversionState = "done"
	StateFailed     ConversionState = "failed"
)

var transitions = map[ConversionState][]ConversionState{
	StateIdle:       {StateResolving, StateFailed},
	StateResolving:  {StateConverting, StateFailed},
	StateConverting: {StateDone, StateFailed},
}

// CanTransition reports whether a conversion may move from one state to another.
// Done and Failed are terminal.
func CanTransition(from, to ConversionState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s ConversionState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}
