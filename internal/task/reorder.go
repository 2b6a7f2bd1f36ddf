package task

// reorder rebuilds items in the order given by keys. Keys that match no item,
// and keys repeated after their first use, are skipped. Items whose key is not
// listed are dropped. When several items share a key the last one wins.
func reorder[T any, K comparable](items []T, keyOf func(T) K, keys []K) []T {
	byKey := make(map[K]T, len(items))
	for _, it := range items {
		byKey[keyOf(it)] = it
	}

	out := make([]T, 0, len(keys))
	used := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		it, ok := byKey[k]
		if !ok {
			continue
		}
		if _, dup := used[k]; dup {
			continue
		}
		used[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
