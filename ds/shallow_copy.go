package ds

// ShallowCopy copies the elements of ts into a new backing array. A nil slice
// stays nil, so copies compare equal to their source.
func ShallowCopy[T any](ts []T) []T {
	if ts == nil {
		return nil
	}
	tsCopy := make([]T, len(ts))
	copy(tsCopy, ts)
	return tsCopy
}
