package engine

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never copies rows. Aggregators read through RecordView.
//
// Implementations:
//   RecordStore — owns the loaded rows of one dataset (read-only after load)
//   SubView     — filtered subset (indices into parent, zero-copy)
// ============================================================================

// RecordView provides indexed access to a dataset.
type RecordView interface {
	Len() int
	At(index int) Record
}

// DatasetKind names the shape a RecordStore was loaded from.
type DatasetKind string

const (
	WideMonthly     DatasetKind = "wide_monthly"      // month × emotion proportion columns
	LongMonthly     DatasetKind = "long_monthly"      // month, category, prop
	DreamsWithLight DatasetKind = "dreams_with_light" // one dream per row, radiance joined
	LightRadial     DatasetKind = "light_radial"      // light_group, emotion, prop
	MonthlyRadiance DatasetKind = "monthly_radiance"  // month, mean_rad
	Boundary        DatasetKind = "boundary"          // GeoJSON FeatureCollection, passed through
)

// Rejection records why an input row did not become a Record.
type Rejection struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ============================================================================
// RECORD STORE
// ============================================================================

// RecordStore holds the validated rows of one dataset. It is immutable once
// built and may be shared by any number of readers.
type RecordStore struct {
	kind     DatasetKind
	records  []Record
	rejected []Rejection
}

// NewRecordStore creates a store. The store takes ownership of records.
func NewRecordStore(kind DatasetKind, records []Record, rejected []Rejection) *RecordStore {
	return &RecordStore{kind: kind, records: records, rejected: rejected}
}

func (s *RecordStore) Kind() DatasetKind { return s.kind }
func (s *RecordStore) Len() int          { return len(s.records) }

func (s *RecordStore) At(i int) Record {
	if i < 0 || i >= len(s.records) {
		return Record{}
	}
	return s.records[i]
}

// Rejections returns the per-row rejection reasons collected at parse time.
func (s *RecordStore) Rejections() []Rejection {
	out := make([]Rejection, len(s.rejected))
	copy(out, s.rejected)
	return out
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) At(i int) Record {
	if i < 0 || i >= len(v.indices) {
		return Record{}
	}
	return v.parent.At(v.indices[i])
}

// Each calls fn for every record of view in order.
func Each(view RecordView, fn func(Record)) {
	for i := 0; i < view.Len(); i++ {
		fn(view.At(i))
	}
}
