// Package resolver implements the cross-file factory resolution pass
// (§4.E): for each factory-base class, collect every class whose
// direct parent matches, ported from
// original_source/CI/meta_generator/core/generator.py's
// build_factory_bases/compute_short_name/compute_enum_type_name/
// compute_factory_name/compute_include_path.
package resolver

import (
	"sort"
	"strings"

	"github.com/b0gdan0v-bagi/BagiEngine/internal/pathutil"
	"github.com/b0gdan0v-bagi/BagiEngine/model"
)

// ClassSource is the read-only view the resolver needs of the cache.
// Accepting this narrow interface instead of *cache.Cache keeps the
// resolver pure and cache-agnostic, matching invariant: "the Resolver
// produces FactoryFamily values derived from the cache and does not
// mutate it" (§3).
type ClassSource interface {
	FactoryBases() []model.ClassInfo
	DerivedOf(simpleName string) []model.ClassInfo
}

// Resolve walks every cached factory base and emits one FactoryFamily
// per base that has at least one derived class (§4.E point 5). Derived
// classes within a family are sorted by full qualified name so
// repeated runs over the same cache state produce identical output
// (§8 property 4: resolver purity).
func Resolve(src ClassSource, includeDirs []string) []model.FactoryFamily {
	bases := append([]model.ClassInfo(nil), src.FactoryBases()...)
	sort.Slice(bases, func(i, j int) bool { return simpleSortKey(bases[i]) < simpleSortKey(bases[j]) })

	families := make([]model.FactoryFamily, 0, len(bases))
	for _, base := range bases {
		var derived []model.DerivedClass
		for _, cls := range src.DerivedOf(base.Name) {
			derived = append(derived, model.DerivedClass{
				SimpleName:        cls.Name,
				ShortName:         ShortName(cls.Name, base.Name),
				FullQualifiedName: cls.FullQualifiedName,
				SourceFile:        cls.SourceFile,
				IncludePath:       pathutil.RelativeTo(cls.SourceFile, includeDirs),
			})
		}
		if len(derived) == 0 {
			continue
		}

		sort.Slice(derived, func(i, j int) bool {
			return derived[i].FullQualifiedName < derived[j].FullQualifiedName
		})

		families = append(families, model.FactoryFamily{
			Base:         base,
			EnumTypeName: EnumTypeName(base.Name),
			FactoryName:  FactoryName(base.Name),
			Derived:      derived,
		})
	}

	sort.Slice(families, func(i, j int) bool {
		return families[i].Base.FullQualifiedName < families[j].Base.FullQualifiedName
	})

	return families
}

// stripLeadingI removes a leading "I" from an interface-style base
// class name, e.g. ILogSink -> LogSink.
func stripLeadingI(name string) string {
	if len(name) > 1 && name[0] == 'I' {
		return name[1:]
	}
	return name
}

// EnumTypeName computes the generated enum type name for a factory
// base, e.g. ILogSink -> LogSinkType.
func EnumTypeName(baseName string) string {
	return stripLeadingI(baseName) + "Type"
}

// FactoryName computes the generated factory class name for a factory
// base, e.g. ILogSink -> LogSinkFactory.
func FactoryName(baseName string) string {
	return stripLeadingI(baseName) + "Factory"
}

// EnumOutputFilename computes the per-family generated header name,
// e.g. ILogSink -> EnumLogSink.gen.hpp.
func EnumOutputFilename(baseName string) string {
	return "Enum" + stripLeadingI(baseName) + ".gen.hpp"
}

// ShortName computes the enum constant name for a derived class
// relative to its base, stripping their longest common suffix (§4.E
// point 3): ConsoleSink + ILogSink -> Console.
func ShortName(derivedName, baseName string) string {
	baseSuffix := stripLeadingI(baseName)

	commonLen := 0
	max := len(derivedName)
	if len(baseSuffix) < max {
		max = len(baseSuffix)
	}
	for i := 1; i <= max; i++ {
		if derivedName[len(derivedName)-i:] == baseSuffix[len(baseSuffix)-i:] {
			commonLen = i
		} else {
			break
		}
	}

	if commonLen > 0 && commonLen < len(derivedName) {
		return derivedName[:len(derivedName)-commonLen]
	}
	return derivedName
}

// simpleSortKey gives a deterministic ordering key for factory bases
// even when two bases share a simple name in different namespaces
// (§9 note (b)): full qualified name, falling back to simple name.
func simpleSortKey(cls model.ClassInfo) string {
	if cls.FullQualifiedName != "" {
		return cls.FullQualifiedName
	}
	return cls.Name
}

// HasNamespaceCollision returns one sorted "name: fqn, fqn" entry for
// each simple name shared by two or more factory bases in the given
// families across different namespaces, or nil when there is none
// (§9 note (b)): the spec preserves the original's simple-name-only
// family naming but asks implementers to surface this as a
// diagnostic rather than silently merging or crashing.
func HasNamespaceCollision(families []model.FactoryFamily) []string {
	seen := make(map[string][]string)
	for _, f := range families {
		seen[f.Base.Name] = append(seen[f.Base.Name], f.Base.FullQualifiedName)
	}

	var collisions []string
	for name, fqns := range seen {
		if len(fqns) > 1 {
			collisions = append(collisions, name+": "+strings.Join(fqns, ", "))
		}
	}
	sort.Strings(collisions)
	return collisions
}
