package utils

// FilterString accepts non-empty strings.
func FilterString(input any) bool {
	s, ok := input.(string)
	return ok && s != ""
}

// FilterType returns input as T when filter accepts it, otherwise def.
func FilterType[T any](input any, filter func(any) bool, def T) T {
	if !filter(input) {
		return def
	}
	if v, ok := input.(T); ok {
		return v
	}
	return def
}

// NullableString returns nil for empty captures and a pointer to s otherwise.
func NullableString(s string) *string {
	v := FilterType(s, FilterString, "")
	if v == "" {
		return nil
	}
	return &v
}
