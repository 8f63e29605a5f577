package sexy

import "fmt"

// Match checks actual against pattern and describes the first difference.
//
// A `_` symbol in the pattern matches any datum, and a trailing `...` in a
// list or array matches any remaining items. Map patterns must name exactly
// the keys of the actual map, in any order. List metadata in the pattern must
// be present on the actual list; extra metadata is ignored.
func Match(pattern, actual *Node) error {
	return match(pattern, actual, "root")
}

func match(pattern, actual *Node, path string) error {
	if pattern == nil || actual == nil {
		if pattern == actual {
			return nil
		}
		return fmt.Errorf("at %s: expected %v, got %v", path, pattern, actual)
	}
	if pattern.IsSymbol("_") {
		return nil
	}
	if pattern.Type != actual.Type {
		return fmt.Errorf("at %s: expected %s, got %s", path, pattern, actual)
	}

	switch pattern.Type {
	case NodeSymbol, NodeString, NodeInteger:
		if pattern.Text != actual.Text {
			return fmt.Errorf("at %s: expected %s, got %s", path, pattern, actual)
		}
		return nil
	case NodeEllipsis:
		return nil
	case NodeList, NodeArray:
		for i, key := range pattern.MetaKeys {
			value, ok := actual.Meta(key)
			if !ok {
				return fmt.Errorf("at %s: missing metadata %q", path, key)
			}
			if err := match(pattern.MetaItems[i], value, path+"^"+key); err != nil {
				return err
			}
		}
		return matchItems(pattern.Items, actual.Items, path)
	case NodeMap:
		if len(pattern.Keys) != len(actual.Keys) {
			return fmt.Errorf("at %s: expected %s, got %s", path, pattern, actual)
		}
		for i, key := range pattern.Keys {
			value, ok := actual.Lookup(key)
			if !ok {
				return fmt.Errorf("at %s: missing key %q in %s", path, key, actual)
			}
			if err := match(pattern.Items[i], value, path+"."+key); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("at %s: cannot match %s", path, pattern)
}

func matchItems(pattern, actual []*Node, path string) error {
	for i, p := range pattern {
		if p.Type == NodeEllipsis && i == len(pattern)-1 {
			return nil
		}
		if i >= len(actual) {
			return fmt.Errorf("at %s: expected item %d (%s), list ended", path, i, p)
		}
		if err := match(p, actual[i], fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	if len(actual) > len(pattern) {
		return fmt.Errorf("at %s: unexpected extra item %s", path, actual[len(pattern)])
	}
	return nil
}
