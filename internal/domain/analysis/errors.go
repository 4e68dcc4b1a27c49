package analysis

import "fmt"

// InputTooShortError rejects content below MinContentChars after normalization.
type InputTooShortError struct {
	Length int
	Min    int
}

func (e InputTooShortError) Error() string {
	return fmt.Sprintf("Content too short. Provide at least %d characters.", e.Min)
}

// InputTooLongError rejects raw submissions above MaxRawInputBytes. Normalized
// content above MaxContentChars is truncated instead.
type InputTooLongError struct {
	Length int
	Max    int
}

func (e InputTooLongError) Error() string {
	return fmt.Sprintf("Input too large: %d bytes exceeds the %d byte limit.", e.Length, e.Max)
}

// SourceFetchError carries a URL extraction failure verbatim to the caller.
type SourceFetchError struct {
	URL string
	Msg string
	Err error
}

func (e *SourceFetchError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "Failed to fetch content."
}

func (e *SourceFetchError) Unwrap() error { return e.Err }

// UnknownDimensionError means a key is not registered in the prompt catalog.
type UnknownDimensionError struct {
	Key string
}

func (e UnknownDimensionError) Error() string {
	return fmt.Sprintf("unknown dimension key: %s", e.Key)
}
