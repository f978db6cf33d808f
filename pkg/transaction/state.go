package transaction

// State is the lifecycle step of a record.
type State uint8

const (
	StateBuilt State = iota
	StateFinalized
	StateSigned
	StateSecondSigned
	StateIdentified
)

var stateNames = map[State]string{
	StateBuilt:        "built",
	StateFinalized:    "finalized",
	StateSigned:       "signed",
	StateSecondSigned: "secondSigned",
	StateIdentified:   "identified",
}

func (s State) String() string {
	name, exist := stateNames[s]
	if !exist {
		return "unknown"
	}
	return name
}

func (s State) finalized() bool {
	return s >= StateFinalized
}

func (s State) signed() bool {
	return s >= StateSigned
}

// canSign reports whether sign is allowed from the state.
func (s State) canSign() bool {
	return s.finalized()
}

// canIdentify reports whether identify is allowed from the state.
func (s State) canIdentify() bool {
	return s == StateSigned || s == StateSecondSigned || s == StateIdentified
}
