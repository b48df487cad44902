package schema

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/spanlane/pkg/errors"
)

// MarshalTrace serializes a Trace to pretty-printed JSON bytes.
func MarshalTrace(t Trace) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// WriteTrace writes t as indented JSON to w.
func WriteTrace(t Trace, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// UnmarshalTrace decodes a Trace and checks that parent references point at
// earlier spans and exactly one span is the root.
func UnmarshalTrace(data []byte) (Trace, error) {
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return Trace{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal trace")
	}
	if len(t.Spans) == 0 {
		return Trace{}, errors.New(errors.ErrCodeEmptyTrace, "trace has no spans")
	}
	roots := 0
	for i, s := range t.Spans {
		if s.ID != i {
			return Trace{}, errors.New(errors.ErrCodeMalformedSpan, "span at index %d has id %d", i, s.ID)
		}
		switch {
		case s.Parent == NoParent:
			roots++
		case s.Parent < 0 || s.Parent >= i:
			return Trace{}, errors.New(errors.ErrCodeMalformedSpan, "span %d has invalid parent %d", i, s.Parent)
		}
		if s.End < s.Start {
			return Trace{}, errors.New(errors.ErrCodeMalformedSpan, "span %d ends before it starts", i)
		}
	}
	if roots != 1 {
		return Trace{}, errors.New(errors.ErrCodeRootSpan, "trace must have exactly one root span, got %d", roots)
	}
	return t, nil
}
