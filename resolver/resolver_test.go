package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/b0gdan0v-bagi/BagiEngine/model"
)

type fakeSource struct {
	classes []model.ClassInfo
}

func (f fakeSource) FactoryBases() []model.ClassInfo {
	var bases []model.ClassInfo
	for _, cls := range f.classes {
		if cls.IsFactoryBase {
			bases = append(bases, cls)
		}
	}
	return bases
}

func (f fakeSource) DerivedOf(simpleName string) []model.ClassInfo {
	var derived []model.ClassInfo
	for _, cls := range f.classes {
		if cls.ParentClass == simpleName {
			derived = append(derived, cls)
		}
	}
	return derived
}

func TestResolveBuildsFamily(t *testing.T) {
	src := fakeSource{classes: []model.ClassInfo{
		{Name: "ISink", FullQualifiedName: "Proj::ISink", IsFactoryBase: true},
		{Name: "ConsoleSink", FullQualifiedName: "Proj::ConsoleSink", ParentClass: "ISink", SourceFile: "/src/ConsoleSink.h"},
		{Name: "FileSink", FullQualifiedName: "Proj::FileSink", ParentClass: "ISink", SourceFile: "/src/FileSink.h"},
	}}

	families := Resolve(src, []string{"/src"})
	require.Len(t, families, 1)

	family := families[0]
	require.Equal(t, "SinkType", family.EnumTypeName)
	require.Equal(t, "SinkFactory", family.FactoryName)
	require.Len(t, family.Derived, 2)
	require.Equal(t, "Console", family.Derived[0].ShortName)
	require.Equal(t, "File", family.Derived[1].ShortName)
}

func TestResolveOmitsEmptyFamilies(t *testing.T) {
	src := fakeSource{classes: []model.ClassInfo{
		{Name: "ILonely", IsFactoryBase: true},
	}}

	require.Empty(t, Resolve(src, nil))
}

func TestResolveIsPure(t *testing.T) {
	src := fakeSource{classes: []model.ClassInfo{
		{Name: "ISink", FullQualifiedName: "Proj::ISink", IsFactoryBase: true},
		{Name: "ConsoleSink", FullQualifiedName: "Proj::ConsoleSink", ParentClass: "ISink", SourceFile: "/src/ConsoleSink.h"},
	}}

	first := Resolve(src, []string{"/src"})
	second := Resolve(src, []string{"/src"})
	require.Equal(t, first, second)
}

func TestShortNameStability(t *testing.T) {
	cases := []struct{ derived, base, want string }{
		{"ConsoleSink", "ILogSink", "Console"},
		{"FileSink", "ILogSink", "File"},
		{"MyWidget", "IWidget", "My"},
		{"ClearScreenWidget", "IWidget", "ClearScreen"},
	}

	for _, c := range cases {
		got := ShortName(c.derived, c.base)
		require.Equal(t, c.want, got)
		require.NotEmpty(t, got)
	}
}

func TestEnumAndFactoryNames(t *testing.T) {
	require.Equal(t, "LogSinkType", EnumTypeName("ILogSink"))
	require.Equal(t, "LogSinkFactory", FactoryName("ILogSink"))
	require.Equal(t, "EnumLogSink.gen.hpp", EnumOutputFilename("ILogSink"))
}

func TestHasNamespaceCollision(t *testing.T) {
	families := []model.FactoryFamily{
		{Base: model.ClassInfo{Name: "ISink", FullQualifiedName: "A::ISink"}},
		{Base: model.ClassInfo{Name: "ISink", FullQualifiedName: "B::ISink"}},
	}
	collisions := HasNamespaceCollision(families)
	require.Len(t, collisions, 1)
}
