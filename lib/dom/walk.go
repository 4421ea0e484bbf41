package dom

import "strings"

// IsCustomTag reports whether tag names a custom element (contains '-').
func IsCustomTag(tag string) bool {
	return strings.Contains(tag, "-")
}

// DescendAll is a CollectTags predicate that enters every shadow root.
func DescendAll(*Node) bool { return true }

// CollectTags walks root and returns the distinct custom element tag names
// in tree order. descend is asked, per host element, whether to continue
// into its shadow root.
func CollectTags(root *Node, descend func(host *Node) bool) []string {
	seen := make(map[string]bool)
	var tags []string
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Type == ElementNode && IsCustomTag(n.Tag) && !seen[n.Tag] {
			seen[n.Tag] = true
			tags = append(tags, n.Tag)
		}
		for _, c := range n.children {
			walk(c)
		}
		if n.shadow != nil && descend != nil && descend(n) {
			walk(n.shadow)
		}
	}
	walk(root)
	return tags
}

// QueryAll returns every element under root (excluding root) that matches,
// searching inside shadow roots as well.
func QueryAll(root *Node, match func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.children {
			if c.Type == ElementNode && match(c) {
				out = append(out, c)
			}
			walk(c)
		}
		if n.shadow != nil {
			walk(n.shadow)
		}
	}
	walk(root)
	return out
}

// Query returns the first QueryAll match, or nil.
func Query(root *Node, match func(*Node) bool) *Node {
	if all := QueryAll(root, match); len(all) > 0 {
		return all[0]
	}
	return nil
}

// ByTag matches elements with the given tag name.
func ByTag(tag string) func(*Node) bool {
	tag = strings.ToLower(tag)
	return func(n *Node) bool { return n.Tag == tag }
}

// ByAttr matches elements carrying the attribute, whatever its value.
func ByAttr(name string) func(*Node) bool {
	return func(n *Node) bool { return n.HasAttribute(name) }
}
