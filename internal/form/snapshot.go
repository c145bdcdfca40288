package form

// Snapshot is the complete value of one form variant at a point in time.
// Implementations are plain structs with value receivers: every With*
// method returns a new snapshot and leaves the receiver untouched.
type Snapshot[T any] interface {
	// Fields returns the declared field descriptors in display order.
	Fields() []Field
	// Text returns the stored value of a text-like field.
	Text(name Name) string
	WithText(name Name, value string) (T, error)
	Checked(name Name) bool
	WithChecked(name Name, checked bool) (T, error)
	// Selected returns a copy of a multi-select group's values.
	Selected(name Name) []string
	WithSelected(name Name, values []string) (T, error)
	// Validate runs every rule of the variant and reports all failures.
	Validate() Errors
}

// PhotoSnapshot is implemented by variants that carry a photo set.
type PhotoSnapshot[T any] interface {
	Photos() []Photo
	WithPhotos(photos []Photo) T
}
