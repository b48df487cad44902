// Package otlp converts simulated traces into OpenTelemetry trace data.
//
// Each service becomes one ResourceSpans entry carrying a service.name
// resource attribute, in order of first appearance. Span IDs are derived from
// span positions so the same trace always exports the same IDs; the trace ID
// is random unless [WithTraceID] is given.
//
// Simulated times have no unit. [WithUnit] sets how long one unit lasts
// (default one millisecond) and [WithBaseTime] anchors time 0.
//
// The JSON encoding follows protojson, which writes trace and span IDs as
// base64 rather than the hex used by the OTLP/HTTP JSON spec.
package otlp

import (
	"encoding/binary"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/matzehuels/spanlane/pkg/buildinfo"
	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/schema"
)

// ScopeName is the instrumentation scope recorded on exported spans.
const ScopeName = "spanlane"

// Attribute keys added to every span.
const (
	AttrKind  = "spanlane.kind"
	AttrModel = "spanlane.model"
	AttrSeed  = "spanlane.seed"
)

// Option configures an export.
type Option func(*exporter)

type exporter struct {
	unit    time.Duration
	base    time.Time
	traceID [16]byte
}

// WithUnit sets the wall-clock length of one simulated time unit.
func WithUnit(d time.Duration) Option { return func(e *exporter) { e.unit = d } }

// WithBaseTime sets the wall-clock time of simulated time 0.
func WithBaseTime(t time.Time) Option { return func(e *exporter) { e.base = t } }

// WithTraceID sets the exported trace ID.
func WithTraceID(id [16]byte) Option { return func(e *exporter) { e.traceID = id } }

func newExporter(opts []Option) exporter {
	e := exporter{
		unit:    time.Millisecond,
		base:    time.Unix(0, 0).UTC(),
		traceID: uuid.New(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// FromTrace converts t into OTLP TracesData.
func FromTrace(t schema.Trace, opts ...Option) (*tracepb.TracesData, error) {
	if len(t.Spans) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyTrace, "trace has no spans")
	}
	e := newExporter(opts)
	if e.unit <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "time unit must be positive, got %v", e.unit)
	}

	byService := make(map[string]*tracepb.ScopeSpans)
	data := &tracepb.TracesData{}
	for _, s := range t.Spans {
		scope, ok := byService[s.Service]
		if !ok {
			scope = &tracepb.ScopeSpans{
				Scope: &commonpb.InstrumentationScope{Name: ScopeName, Version: buildinfo.Version},
			}
			byService[s.Service] = scope
			data.ResourceSpans = append(data.ResourceSpans, &tracepb.ResourceSpans{
				Resource:   &resourcepb.Resource{Attributes: []*commonpb.KeyValue{stringAttr("service.name", s.Service)}},
				ScopeSpans: []*tracepb.ScopeSpans{scope},
			})
		}
		scope.Spans = append(scope.Spans, e.span(t, s))
	}
	return data, nil
}

func (e exporter) span(t schema.Trace, s schema.Span) *tracepb.Span {
	out := &tracepb.Span{
		TraceId:           e.traceID[:],
		SpanId:            SpanID(s.ID),
		Name:              s.Label,
		Kind:              tracepb.Span_SPAN_KIND_SERVER,
		StartTimeUnixNano: e.timestamp(s.Start),
		EndTimeUnixNano:   e.timestamp(s.End),
		Status:            &tracepb.Status{Code: tracepb.Status_STATUS_CODE_OK},
	}
	if s.Parent != schema.NoParent {
		out.ParentSpanId = SpanID(s.Parent)
		out.Kind = tracepb.Span_SPAN_KIND_INTERNAL
	}

	out.Attributes = append(out.Attributes, stringAttr(AttrKind, s.Kind))
	if t.Model != "" {
		out.Attributes = append(out.Attributes, stringAttr(AttrModel, t.Model))
	}
	out.Attributes = append(out.Attributes, &commonpb.KeyValue{
		Key:   AttrSeed,
		Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: int64(t.Seed)}},
	})
	for _, k := range slices.Sorted(maps.Keys(s.Attributes)) {
		out.Attributes = append(out.Attributes, stringAttr(k, s.Attributes[k]))
	}
	for _, a := range s.Annotations {
		out.Events = append(out.Events, &tracepb.Span_Event{Name: a.Label, TimeUnixNano: e.timestamp(a.Time)})
	}
	return out
}

func (e exporter) timestamp(t float64) uint64 {
	return uint64(e.base.UnixNano() + int64(t*float64(e.unit)))
}

// SpanID returns the 8-byte OTLP span ID for the span at index id. IDs
// start at 1 because the all-zero ID is invalid.
func SpanID(id int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id)+1)
	return b
}

func stringAttr(key, value string) *commonpb.KeyValue {
	return &commonpb.KeyValue{Key: key, Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: value}}}
}

// Marshal encodes data as indented protojson.
func Marshal(data *tracepb.TracesData) ([]byte, error) {
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(data)
}

// Unmarshal decodes protojson produced by [Marshal].
func Unmarshal(b []byte) (*tracepb.TracesData, error) {
	data := &tracepb.TracesData{}
	if err := protojson.Unmarshal(b, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode OTLP traces")
	}
	return data, nil
}
