package parser

import "testing"

func TestFindBEClassPlain(t *testing.T) {
	found, factory := findBEClass(`public: BE_CLASS(Foo) int x;`, "Foo")
	if !found || factory {
		t.Fatalf("found=%v factory=%v, want found=true factory=false", found, factory)
	}
}

func TestFindBEClassFactoryBase(t *testing.T) {
	found, factory := findBEClass(`BE_CLASS(ISink, FACTORY_BASE)`, "ISink")
	if !found || !factory {
		t.Fatalf("found=%v factory=%v, want found=true factory=true", found, factory)
	}
}

func TestFindBEClassFactoryBaseCaseInsensitive(t *testing.T) {
	found, factory := findBEClass(`BE_CLASS(ISink, factory_base)`, "ISink")
	if !found || !factory {
		t.Fatalf("expected case-insensitive FACTORY_BASE match")
	}
}

func TestFindBEClassNameMismatch(t *testing.T) {
	found, _ := findBEClass(`BE_CLASS(Other)`, "Foo")
	if found {
		t.Fatal("expected no match when macro names a different class")
	}
}

func TestHasTextualMarkerCurrentLine(t *testing.T) {
	lines := []string{"class Foo {", "BE_REFLECT_FIELD int x;", "};"}
	if !hasTextualMarker(lines, 2, "BE_REFLECT_FIELD") {
		t.Fatal("expected marker on declaration line to be found")
	}
}

func TestHasTextualMarkerPrecedingLine(t *testing.T) {
	lines := []string{"class Foo {", "BE_REFLECT_FIELD", "int x;", "};"}
	if !hasTextualMarker(lines, 3, "BE_REFLECT_FIELD") {
		t.Fatal("expected marker on preceding line to be found")
	}
}

func TestHasTextualMarkerAbsent(t *testing.T) {
	lines := []string{"class Foo {", "int x;", "};"}
	if hasTextualMarker(lines, 2, "BE_REFLECT_FIELD") {
		t.Fatal("expected no marker match")
	}
}

func TestStripQualifier(t *testing.T) {
	if got := stripQualifier("BECore::ISink"); got != "ISink" {
		t.Fatalf("stripQualifier = %q, want ISink", got)
	}
	if got := stripQualifier("ISink"); got != "ISink" {
		t.Fatalf("stripQualifier = %q, want ISink", got)
	}
}

func TestHasOverrideToken(t *testing.T) {
	if !hasOverrideToken([]string{"void", "foo", "(", ")", "override", ";"}) {
		t.Fatal("expected override token to be detected")
	}
	if hasOverrideToken([]string{"void", "foo", "(", ")", ";"}) {
		t.Fatal("expected no override token")
	}
}
