package glyphatlas

// RoutePolicy selects the target page index for a character sequence.
// Policies must be deterministic: the same sequence always routes to
// the same page, independent of call order. The page count and the
// routing policy are configured independently; results outside the
// page list clamp to the last page.
type RoutePolicy func(chars string) int

// RouteASCIILetters sends sequences containing at least one ASCII
// letter to page 0 and everything else to page 1. It is a placeholder
// heuristic that exercises multi-page behavior, not a load-balancing
// policy; hosts with real distribution requirements should supply
// their own RoutePolicy.
func RouteASCIILetters(chars string) int {
	for i := 0; i < len(chars); i++ {
		if isASCIILetter(chars[i]) {
			return 0
		}
	}
	return 1
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
