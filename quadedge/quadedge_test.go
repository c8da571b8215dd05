package quadedge

import "testing"

func TestRotSymInvRot_Algebra(t *testing.T) {
	s := New()
	e := s.MakeEdge()

	if got := e.Rot().Rot().Rot().Rot(); got != e {
		t.Errorf("Rot^4 = %v, want %v", got, e)
	}
	if got := e.Sym().Sym(); got != e {
		t.Errorf("Sym^2 = %v, want %v", got, e)
	}
	if got := e.Rot().InvRot(); got != e {
		t.Errorf("Rot then InvRot = %v, want %v", got, e)
	}
	if got := e.Rot().Rot(); got != e.Sym() {
		t.Errorf("Rot^2 = %v, want Sym() = %v", got, e.Sym())
	}
}

func TestMakeEdge_IsolatedRing(t *testing.T) {
	s := New()
	e := s.MakeEdge()

	if got := s.Onext(e); got != e {
		t.Errorf("fresh edge Onext = %v, want self (%v)", got, e)
	}
	if got := s.Onext(e.Sym()); got != e.Sym() {
		t.Errorf("fresh edge Sym Onext = %v, want self (%v)", got, e.Sym())
	}
	if _, ok := s.Org(e); ok {
		t.Errorf("fresh edge should have no origin set")
	}
}

func TestSplice_JoinsAndSplitsRings(t *testing.T) {
	s := New()
	a := s.MakeEdge()
	b := s.MakeEdge()
	s.SetOrg(a, 0)
	s.SetOrg(b, 0)

	s.Splice(a, b)
	if got := s.Onext(a); got != b {
		t.Errorf("after joining splice, Onext(a) = %v, want %v", got, b)
	}
	if got := s.Onext(b); got != a {
		t.Errorf("after joining splice, Onext(b) = %v, want %v", got, a)
	}

	// Splice is involutive: applying it again restores isolation.
	s.Splice(a, b)
	if got := s.Onext(a); got != a {
		t.Errorf("after undoing splice, Onext(a) = %v, want self (%v)", got, a)
	}
	if got := s.Onext(b); got != b {
		t.Errorf("after undoing splice, Onext(b) = %v, want self (%v)", got, b)
	}
}

func TestConnect_LinksTriangleFace(t *testing.T) {
	s := New()
	a := s.MakeEdge()
	s.SetOrg(a, 0)
	s.SetDest(a, 1)
	b := s.MakeEdge()
	s.SetOrg(b, 1)
	s.SetDest(b, 2)
	s.Splice(a.Sym(), b)

	c := s.Connect(b, a)
	if got, _ := s.Org(c); got != 2 {
		t.Errorf("Connect(b, a) org = %v, want 2", got)
	}
	if got, _ := s.Dest(c); got != 0 {
		t.Errorf("Connect(b, a) dest = %v, want 0", got)
	}
	if got := s.Lnext(a); got != b {
		t.Errorf("Lnext(a) = %v, want %v", got, b)
	}
	if got := s.Lnext(b); got != c {
		t.Errorf("Lnext(b) = %v, want %v", got, c)
	}
	if got := s.Lnext(c); got != a {
		t.Errorf("Lnext(c) = %v, want %v", got, a)
	}
}

func TestDeleteEdge_FreesGroupForReuse(t *testing.T) {
	s := New()
	a := s.MakeEdge()
	_ = s.MakeEdge()
	s.DeleteEdge(a)

	reused := s.MakeEdge()
	if reused&^3 != a&^3 {
		t.Errorf("MakeEdge after DeleteEdge should reuse the lowest free group; got base %v, want %v", reused&^3, a&^3)
	}
}

func TestGroups_ExcludesDeleted(t *testing.T) {
	s := New()
	a := s.MakeEdge()
	b := s.MakeEdge()
	_ = s.MakeEdge()
	s.DeleteEdge(b)

	groups := s.Groups()
	want := map[EdgeID]bool{a &^ 3: true}
	for _, g := range groups {
		if g == b&^3 {
			t.Errorf("Groups() included deleted group %v", g)
		}
	}
	if len(groups) != 2 {
		t.Errorf("Groups() len = %v, want 2", len(groups))
	}
	if !want[groups[0]] && !want[groups[1]] {
		t.Errorf("Groups() = %v, want to include %v", groups, a&^3)
	}
}

func TestOprevDnextRprev_Identities(t *testing.T) {
	s := New()
	e := s.MakeEdge()

	if got := s.Oprev(e); got != s.Onext(e.Rot()).Rot() {
		t.Errorf("Oprev definition mismatch")
	}
	if got := s.Dnext(e); got != s.Onext(e.Sym()).Sym() {
		t.Errorf("Dnext definition mismatch")
	}
	if got := s.Rprev(e); got != s.Onext(e.Sym()) {
		t.Errorf("Rprev definition mismatch")
	}
}
