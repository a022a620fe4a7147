package feature

// DefaultSeparator joins a categorical field and its value into a column name,
// e.g. "Contract_Month-to-month".
const DefaultSeparator = "_"

// EncodedRecord maps derived column names to values. Its column set depends
// on which categorical values the input carried.
type EncodedRecord map[string]float64

// Encoder one-hot expands categorical fields and passes numeric fields through.
type Encoder struct {
	sep string
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithSeparator overrides DefaultSeparator.
func WithSeparator(sep string) EncoderOption {
	return func(e *Encoder) { e.sep = sep }
}

func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{sep: DefaultSeparator}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Column returns the indicator column name for a categorical value.
func (e *Encoder) Column(field, value string) string {
	return field + e.sep + value
}

// Encode emits one indicator per categorical value present in r. Field names
// are not checked against any schema.
func (e *Encoder) Encode(r RawRecord) EncodedRecord {
	out := make(EncodedRecord, len(r.fields))
	for _, f := range r.fields {
		if f.Value.IsCategorical() {
			out[e.Column(f.Name, f.Value.s)] = 1
			continue
		}
		out[f.Name] = f.Value.Float64()
	}
	return out
}
