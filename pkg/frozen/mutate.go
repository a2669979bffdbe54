package frozen

import "errors"

// ErrImmutable is returned by every mutating method of Map.
var ErrImmutable = errors.New("mapping is immutable")

// The methods below make Map satisfy MutableMapping, so that it can be
// handed to code written against mutable maps. Mutation is not part of the
// contract of a frozen map, so all of them fail with ErrImmutable and leave
// the map unchanged. To derive a modified map, build a new one, for example
// with Union.

// Set fails with ErrImmutable.
func (m Map) Set(k, v any) error {
	return ErrImmutable
}

// Delete fails with ErrImmutable.
func (m Map) Delete(k any) error {
	return ErrImmutable
}

// Update fails with ErrImmutable.
func (m Map) Update(other Mapping) error {
	return ErrImmutable
}

// Clear fails with ErrImmutable.
func (m Map) Clear() error {
	return ErrImmutable
}

// Pop fails with ErrImmutable.
func (m Map) Pop(k any) (any, error) {
	return nil, ErrImmutable
}
