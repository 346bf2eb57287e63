package fmindex

// InvalidInputError is returned by New when the text cannot be indexed:
// either it contains the reserved sentinel byte 0, or the requested
// sampling rate is too coarse for the text's length to produce even a
// single sample, or the rate is above 1 so the sampling stride is zero.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "fmindex: invalid input: " + e.Reason
}

// CorruptIndexError is returned by Deserialize when the provided bytes
// don't describe a well-formed index: truncated sections, shape
// mismatches between the recorded lengths and the data present, or a
// checksum that doesn't match the payload.
type CorruptIndexError struct {
	Reason string
}

func (e *CorruptIndexError) Error() string {
	return "fmindex: corrupt index: " + e.Reason
}
