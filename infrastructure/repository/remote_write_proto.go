package repository

import (
	"math"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// metricSample is one time series to include in a remote write request.
// The metric name is carried separately from the labels; the encoder adds
// it as the __name__ label.
type metricSample struct {
	Name   string
	Value  float64
	Labels map[string]string
}

// encodeWriteRequest encodes samples as a prometheus.WriteRequest message.
// All samples share the given timestamp (milliseconds since epoch).
func encodeWriteRequest(samples []metricSample, timestamp int64) []byte {
	var buf []byte
	for _, s := range samples {
		// Field 1: timeseries (repeated)
		buf = protowire.AppendTag(buf, 1, protowire.BytesType)
		buf = protowire.AppendBytes(buf, encodeTimeSeries(s, timestamp))
	}
	return buf
}

// encodeTimeSeries encodes a single TimeSeries
func encodeTimeSeries(s metricSample, timestamp int64) []byte {
	// Remote write requires labels sorted by name
	labels := make(map[string]string, len(s.Labels)+1)
	labels["__name__"] = s.Name
	for k, v := range s.Labels {
		labels[k] = v
	}
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf []byte

	// Field 1: labels (repeated)
	for _, name := range names {
		buf = protowire.AppendTag(buf, 1, protowire.BytesType)
		buf = protowire.AppendBytes(buf, encodeLabel(name, labels[name]))
	}

	// Field 2: samples (repeated)
	buf = protowire.AppendTag(buf, 2, protowire.BytesType)
	buf = protowire.AppendBytes(buf, encodeSample(s.Value, timestamp))

	return buf
}

// encodeLabel encodes a single Label
func encodeLabel(name, value string) []byte {
	var buf []byte

	// Field 1: name (string)
	buf = protowire.AppendTag(buf, 1, protowire.BytesType)
	buf = protowire.AppendString(buf, name)

	// Field 2: value (string)
	buf = protowire.AppendTag(buf, 2, protowire.BytesType)
	buf = protowire.AppendString(buf, value)

	return buf
}

// encodeSample encodes a single Sample
func encodeSample(value float64, timestamp int64) []byte {
	var buf []byte

	// Field 1: value (double/fixed64)
	buf = protowire.AppendTag(buf, 1, protowire.Fixed64Type)
	buf = protowire.AppendFixed64(buf, math.Float64bits(value))

	// Field 2: timestamp (int64/varint)
	buf = protowire.AppendTag(buf, 2, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(timestamp))

	return buf
}
