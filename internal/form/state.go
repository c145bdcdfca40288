package form

import (
	"errors"
	"fmt"
	"maps"
	"strconv"

	"go.uber.org/zap"

	"github.com/mirage/artesanato/internal/logging"
	"github.com/mirage/artesanato/internal/preview"
)

// ErrIndexOutOfRange is returned by OnFileRemove for a bad index.
var ErrIndexOutOfRange = errors.New("photo index out of range")

// State holds the current snapshot and error mapping of one form instance.
// Every event replaces the snapshot with a new value; earlier snapshots
// returned to callers are never modified.
//
// State is not safe for concurrent use. The TUI drives it from its update
// loop only.
type State[T Snapshot[T]] struct {
	snapshot T
	errors   Errors
	opener   preview.Opener
}

// NewState creates a container around initial. opener may be nil for forms
// without photos.
func NewState[T Snapshot[T]](initial T, opener preview.Opener) *State[T] {
	return &State[T]{
		snapshot: initial,
		errors:   Errors{},
		opener:   opener,
	}
}

// Snapshot returns the current snapshot.
func (s *State[T]) Snapshot() T { return s.snapshot }

// Errors returns the mapping from the last validation pass.
func (s *State[T]) Errors() Errors { return s.errors }

// Fields returns the form's field descriptors.
func (s *State[T]) Fields() []Field { return s.snapshot.Fields() }

// Display returns the value of name as the user should see it.
func (s *State[T]) Display(name Name) string {
	f, ok := Lookup(s.snapshot.Fields(), name)
	if !ok {
		return ""
	}
	return f.Display(s.snapshot.Text(name))
}

// OnFieldChange applies a raw keystroke value to a text, select or checkbox
// field. Masked fields are reformatted before they are stored.
func (s *State[T]) OnFieldChange(name Name, raw string) (T, error) {
	f, ok := Lookup(s.snapshot.Fields(), name)
	if !ok {
		return s.snapshot, unknownField(name)
	}

	switch {
	case f.Kind == KindCheckbox:
		checked, err := strconv.ParseBool(raw)
		if err != nil {
			return s.snapshot, fmt.Errorf("checkbox %s: %w", name, err)
		}
		return s.OnCheckboxChange(name, checked)

	case f.Kind == KindSelect:
		if raw != "" && !f.HasOption(raw) {
			return s.snapshot, fmt.Errorf("%w %q for %s", ErrInvalidOption, raw, name)
		}
		return s.setText(name, raw)

	case f.Kind.IsText():
		return s.setText(name, f.Normalize(raw))
	}

	return s.snapshot, unknownField(name)
}

func (s *State[T]) setText(name Name, value string) (T, error) {
	next, err := s.snapshot.WithText(name, value)
	if err != nil {
		return s.snapshot, err
	}
	s.snapshot = next
	return next, nil
}

// OnCheckboxChange sets a checkbox field.
func (s *State[T]) OnCheckboxChange(name Name, checked bool) (T, error) {
	next, err := s.snapshot.WithChecked(name, checked)
	if err != nil {
		return s.snapshot, err
	}
	s.snapshot = next
	return next, nil
}

// OnMultiSelectToggle adds value to group when checked and removes it
// otherwise. Values that are not declared options of group are ignored.
func (s *State[T]) OnMultiSelectToggle(group Name, value string, checked bool) (T, error) {
	f, ok := Lookup(s.snapshot.Fields(), group)
	if !ok || f.Kind != KindMultiSelect {
		return s.snapshot, unknownField(group)
	}
	if !f.HasOption(value) {
		return s.snapshot, nil
	}

	next, err := s.snapshot.WithSelected(group, toggle(s.snapshot.Selected(group), value, checked))
	if err != nil {
		return s.snapshot, err
	}
	s.snapshot = next
	return next, nil
}

// OnFileAdd appends photos and opens one preview per photo. If any file
// cannot be previewed, the handles opened by this call are released and the
// snapshot is left unchanged.
func (s *State[T]) OnFileAdd(paths ...string) (T, error) {
	ps, ok := any(s.snapshot).(PhotoSnapshot[T])
	if !ok || s.opener == nil {
		return s.snapshot, ErrNoPhotos
	}

	photos := ps.Photos()
	added := make([]Photo, 0, len(paths))
	for _, p := range paths {
		h, err := s.opener.Open(p)
		if err != nil {
			for _, a := range added {
				_ = a.Preview.Release()
			}
			return s.snapshot, err
		}
		added = append(added, Photo{Path: p, Preview: h})
	}

	s.snapshot = ps.WithPhotos(append(photos, added...))
	return s.snapshot, nil
}

// OnFileRemove drops the photo at index and releases its preview. The order
// of the remaining photos is preserved.
func (s *State[T]) OnFileRemove(index int) (T, error) {
	ps, ok := any(s.snapshot).(PhotoSnapshot[T])
	if !ok {
		return s.snapshot, ErrNoPhotos
	}

	photos := ps.Photos()
	if index < 0 || index >= len(photos) {
		return s.snapshot, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(photos))
	}

	removed := photos[index]
	remaining := append(photos[:index:index], photos[index+1:]...)
	s.snapshot = ps.WithPhotos(remaining)

	if removed.Preview != nil {
		if err := removed.Preview.Release(); err != nil && !errors.Is(err, preview.ErrReleased) {
			logging.Warn("Failed to release preview", zap.String("path", removed.Path), zap.Error(err))
		}
	}
	return s.snapshot, nil
}

// Validate recomputes the error mapping from the current snapshot.
func (s *State[T]) Validate() Errors {
	s.errors = s.snapshot.Validate()
	return s.errors
}

// SetErrors replaces the stored error mapping with a copy of errs, typically
// the result of validating a snapshot captured earlier.
func (s *State[T]) SetErrors(errs Errors) {
	s.errors = maps.Clone(errs)
	if s.errors == nil {
		s.errors = Errors{}
	}
}

// ClearErrors drops the stored error mapping.
func (s *State[T]) ClearErrors() {
	s.errors = Errors{}
}

// Close releases every preview still held by the current snapshot.
func (s *State[T]) Close() error {
	ps, ok := any(s.snapshot).(PhotoSnapshot[T])
	if !ok {
		return nil
	}
	var errs []error
	for _, p := range ps.Photos() {
		if p.Preview == nil {
			continue
		}
		if err := p.Preview.Release(); err != nil && !errors.Is(err, preview.ErrReleased) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
