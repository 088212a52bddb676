package scoring

// Class is the display classification of one passage character.
type Class int

const (
	Untyped Class = iota
	Correct
	Incorrect
	Cursor
)

func (c Class) String() string {
	switch c {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Cursor:
		return "cursor"
	default:
		return "untyped"
	}
}

// Classify labels every reference character against typed input. The first
// untyped character is the cursor.
func Classify(typed, reference []rune) []Class {
	out := make([]Class, len(reference))
	for i, r := range reference {
		switch {
		case i < len(typed) && typed[i] == r:
			out[i] = Correct
		case i < len(typed):
			out[i] = Incorrect
		case i == len(typed):
			out[i] = Cursor
		default:
			out[i] = Untyped
		}
	}
	return out
}
