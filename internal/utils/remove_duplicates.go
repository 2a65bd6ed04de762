package utils

/*
RemoveDuplicates takes a slice and returns a new slice with only the
unique elements from the input slice, in order of first appearance.
*/
func RemoveDuplicates[T comparable](items []T) []T {
	seenItems := make(map[T]struct{})
	var uniqueItems []T
	for _, item := range items {
		if _, seen := seenItems[item]; !seen {
			seenItems[item] = struct{}{}
			uniqueItems = append(uniqueItems, item)
		}
	}
	return uniqueItems
}
