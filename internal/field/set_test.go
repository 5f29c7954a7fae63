package field

import "testing"

func names(s Set) map[string]bool {
	out := map[string]bool{}
	for _, n := range s.Names() {
		out[n] = true
	}
	return out
}

func TestSet_Algebra(t *testing.T) {
	a := NewSet(FirstName, LastName, EmailField)
	b := NewSet(LastName, PhoneNumberField)

	if got := a.Union(b).Len(); got != 4 {
		t.Errorf("union: expected 4, got %d", got)
	}
	minus := names(a.Minus(b))
	if len(minus) != 2 || !minus["first_name"] || !minus["email"] {
		t.Errorf("minus: got %v", minus)
	}
	inter := names(a.Intersect(b))
	if len(inter) != 1 || !inter["last_name"] {
		t.Errorf("intersect: got %v", inter)
	}
	if a.Len() != 3 {
		t.Error("operations must not modify the receiver")
	}
}

func TestSet_OrderedFollowsCatalog(t *testing.T) {
	s := NewSet(ConsentToRepresent, EmailField, FirstName)
	got := s.Names()
	want := []string{"first_name", "email", "consent_to_represent"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSet_With(t *testing.T) {
	s := NewSet(AddressField, FirstName)
	s2 := s.With(AddressFieldWith(true))
	f, _ := s2.Get("address")
	if !f.NoMailingAddress {
		t.Error("With should replace the member")
	}
	f, _ = s.Get("address")
	if f.NoMailingAddress {
		t.Error("With must not modify the receiver")
	}
	if s.With(EmailField).Has("email") {
		t.Error("With must not add non-members")
	}
}

func TestSet_Equal(t *testing.T) {
	if !NewSet(FirstName, LastName).Equal(NewSet(LastName, FirstName)) {
		t.Error("expected equal sets")
	}
	if NewSet(FirstName).Equal(NewSet(LastName)) {
		t.Error("expected unequal sets")
	}
	var zero Set
	if zero.Len() != 0 || zero.Has("x") {
		t.Error("zero set should be empty")
	}
}
