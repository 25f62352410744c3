package outline

// Node is one outline entry with its nested children. Children order is
// source order; the structure is a forest, so multiple roots are allowed.
type Node struct {
	Title    string  `json:"title"`
	Level    int     `json:"level"`
	Children []*Node `json:"children,omitempty"`
}

// BuildTree turns the flat entry list into a forest using a stack of open
// ancestors. An entry attaches as the last child of the nearest
// shallower-level entry still on the stack, or becomes a new root when none
// remains. Levels are relative nesting signals only: a level-4 entry directly
// after a level-1 entry becomes its direct child, with no gap validation.
func BuildTree(entries []Entry) []*Node {
	var roots []*Node
	var stack []*Node

	for _, entry := range entries {
		node := &Node{Title: entry.Title, Level: entry.Level}

		for len(stack) > 0 && stack[len(stack)-1].Level >= node.Level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
	}

	return roots
}

// Parse is the combined outline pipeline: text in, forest out.
func Parse(text string) ([]*Node, error) {
	entries, err := ParseEntries(text)
	if err != nil {
		return nil, err
	}
	return BuildTree(entries), nil
}
