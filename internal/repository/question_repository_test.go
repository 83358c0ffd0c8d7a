package repository

import "testing"

// An omitted chapters filter arrives as a nil slice. It must bind as an
// empty text[] ("{}"), not SQL NULL: cardinality(NULL::text[]) is NULL,
// which would void the optional-filter guard and match zero questions.
func TestNonNilArray(t *testing.T) {
	if got := nonNilArray(nil); got == nil {
		t.Fatal("nil slice not normalized, would bind as SQL NULL")
	} else if len(got) != 0 {
		t.Fatalf("normalized slice not empty: %v", got)
	}

	chapters := []string{"Kinematics", "Optics"}
	got := nonNilArray(chapters)
	if len(got) != 2 || got[0] != "Kinematics" || got[1] != "Optics" {
		t.Fatalf("non-nil slice altered: %v", got)
	}
}
