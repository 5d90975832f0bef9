// Package parser walks a single C++ header's AST via libclang and
// extracts reflection-marked classes and fields (§4.C), grounded on
// abduld-clang-server/parser/parser.go's clang.Index/TranslationUnit
// handling, narrowed from a whole-project compilation-database
// dispatcher down to a one-file parse(path, include_dirs) contract.
package parser

import (
	"os"
	"strings"

	"github.com/go-clang/v3.9/clang"
	"github.com/pkg/errors"

	"github.com/b0gdan0v-bagi/BagiEngine/internal/pathutil"
	"github.com/b0gdan0v-bagi/BagiEngine/internal/xerrors"
	"github.com/b0gdan0v-bagi/BagiEngine/model"
)

// defaultClangOption mirrors the teacher's defaultClangOption: editing
// defaults plus KeepGoing, narrowed with SkipFunctionBodies since §4.C
// only ever needs declarations, never bodies.
// clang.TranslationUnit_SkipFunctionBodies = 0x40
// clang.TranslationUnit_KeepGoing          = 0x200
var defaultClangOption = clang.DefaultEditingTranslationUnitOptions() |
	uint32(clang.TranslationUnit_SkipFunctionBodies) |
	uint32(clang.TranslationUnit_KeepGoing)

// languageStandard pins every translation unit to a single modern C++
// standard (§4.C).
const languageStandard = "-std=c++20"

// ErrParserUnavailable is returned by ParseFile when Bootstrap has not
// run, and by Bootstrap itself when no libclang was discovered (§7
// ConfigurationError, §9 "missing native AST capability is fatal").
var ErrParserUnavailable = errors.New("native C++ AST capability is not configured")

// Interface is the narrow contract the driver depends on (§4.C, §4.G):
// one header in, its classes and enums out. The driver's own tests use
// a fake Interface so they never need a real libclang (§8).
type Interface interface {
	ParseFile(path string, includeDirs []string) ([]model.ClassInfo, []model.EnumInfo, error)
}

// Parser is a native-AST C++ header parser. It owns a single
// clang.Index for its lifetime, the same shape as the teacher's
// Parser, narrowed from a whole-project compilation-database driver
// down to the spec's one-header-at-a-time contract.
type Parser struct {
	idx              clang.Index
	bootstrapped     bool
	projectNamespace string
}

// NewParser returns an unbootstrapped Parser. projectNamespace is the
// fixed root namespace P that qualified_name is computed relative to
// (§4.C "Name scoping"); pass "" when the project has no single root
// namespace, in which case qualified_name always equals
// full_qualified_name. It touches no native state until Bootstrap
// runs.
func NewParser(projectNamespace string) *Parser {
	return &Parser{projectNamespace: projectNamespace}
}

// Bootstrap performs the one-shot libclang initialization (§9
// "Module-level global state"). libPath is the directory a prior
// settings.DiscoverLibclang call resolved; an empty path means
// discovery failed upstream and the capability stays unavailable.
func (p *Parser) Bootstrap(libPath string) error {
	if libPath == "" {
		return ErrParserUnavailable
	}

	p.idx = clang.NewIndex(0, 0) // disable excludeDeclarationsFromPCH, disable displayDiagnostics
	p.bootstrapped = true
	return nil
}

// ParseFile parses one C++ header and returns the classes it
// reflects. The parser performs no enum reflection, so the second
// return is always empty; it stays in the signature so Interface
// matches the contract §4.C and §4.G describe.
func (p *Parser) ParseFile(path string, includeDirs []string) ([]model.ClassInfo, []model.EnumInfo, error) {
	if !p.bootstrapped {
		return nil, nil, ErrParserUnavailable
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(&xerrors.IOError{Path: path, Err: err}, "read source file")
	}

	canon, err := pathutil.Canonical(path)
	if err != nil {
		canon = path
	}

	args := make([]string, 0, len(includeDirs)+2)
	args = append(args, "-x", "c++", languageStandard)
	for _, dir := range includeDirs {
		args = append(args, "-I"+dir)
	}

	var tu clang.TranslationUnit
	if cErr := p.idx.ParseTranslationUnit2(path, args, nil, defaultClangOption, &tu); clang.ErrorCode(cErr) != clang.Error_Success {
		return nil, nil, errors.Wrap(&xerrors.ParseError{
			Path:   path,
			Detail: clang.ErrorCode(cErr).Spelling(),
		}, "construct translation unit")
	}
	defer tu.Dispose()

	w := &walker{
		sourcePath:       path,
		canonicalPath:    canon,
		lines:            strings.Split(string(content), "\n"),
		content:          string(content),
		projectNamespace: p.projectNamespace,
	}

	rootCursor := tu.TranslationUnitCursor()
	rootCursor.Visit(w.visitTopLevel)

	return w.classes, nil, nil
}

// ClangVersion returns the linked libclang's version string.
func ClangVersion() string {
	return clang.GetClangVersion()
}

// walker accumulates the classes discovered while walking one
// translation unit. It is single-use, the way the teacher's visitNode
// closure captured one file's worth of state.
type walker struct {
	sourcePath       string
	canonicalPath    string
	lines            []string
	content          string
	projectNamespace string

	classes []model.ClassInfo
}

// visitTopLevel mirrors the teacher's visitNode: declarations outside
// the file being parsed are skipped but traversal still recurses
// through them, since a reflected class can be nested inside a
// namespace declared in an included header's preamble-adjacent block.
func (w *walker) visitTopLevel(cursor, parent clang.Cursor) clang.ChildVisitResult {
	if cursor.IsNull() {
		return clang.ChildVisit_Continue
	}

	if !w.isFromSourceFile(cursor) {
		return clang.ChildVisit_Recurse
	}

	switch cursor.Kind() {
	case clang.Cursor_ClassDecl, clang.Cursor_StructDecl:
		if cls, ok := w.parseClass(cursor); ok {
			w.classes = append(w.classes, cls)
		}
	}

	return clang.ChildVisit_Recurse
}

// isFromSourceFile reports whether cursor's location is in the file
// being parsed rather than one of its includes (§4.C).
func (w *walker) isFromSourceFile(cursor clang.Cursor) bool {
	file, _, _, _ := cursor.Location().SpellingLocation()
	if file.IsNull() {
		return false
	}
	name := file.Name()
	return name == w.sourcePath || name == w.canonicalPath
}

// parseClass extracts one class's metadata, returning ok=false when
// the class carries no BE_CLASS registration (§4.C "recognized iff").
func (w *walker) parseClass(cursor clang.Cursor) (model.ClassInfo, bool) {
	name := cursor.Spelling()
	if name == "" {
		return model.ClassInfo{}, false
	}

	found, isFactoryBase := findBEClass(w.extentText(cursor), name)
	if !found {
		return model.ClassInfo{}, false
	}

	namespace := w.namespaceOf(cursor)
	fullQualified := name
	if namespace != "" {
		fullQualified = namespace + "::" + name
	}

	cls := model.ClassInfo{
		Name:              name,
		QualifiedName:     qualifiedName(fullQualified, w.projectNamespace),
		FullQualifiedName: fullQualified,
		Namespace:         namespace,
		IsFactoryBase:     isFactoryBase,
		ParentClass:       w.firstBaseOf(cursor),
		SourceFile:        w.canonicalPath,
		Line:              cursorLine(cursor),
	}

	cursor.Visit(func(child, _ clang.Cursor) clang.ChildVisitResult {
		switch child.Kind() {
		case clang.Cursor_FieldDecl:
			if w.hasReflectAnnotation(child) || hasTextualMarker(w.lines, cursorLine(child), "BE_REFLECT_FIELD") {
				cls.Fields = append(cls.Fields, model.FieldInfo{
					Name:     child.Spelling(),
					TypeName: child.Type().Spelling(),
					Line:     cursorLine(child),
				})
			}
		case clang.Cursor_CXXMethod:
			if w.hasReflectAnnotation(child) || hasTextualMarker(w.lines, cursorLine(child), "BE_FUNCTION") {
				cls.Methods = append(cls.Methods, w.parseMethod(child))
			}
		}
		return clang.ChildVisit_Continue
	})

	return cls, true
}

// firstBaseOf returns the simple name of cursor's first base
// specifier (§4.C "Direct parent").
func (w *walker) firstBaseOf(cursor clang.Cursor) string {
	var base string
	cursor.Visit(func(child, _ clang.Cursor) clang.ChildVisitResult {
		if base != "" {
			return clang.ChildVisit_Break
		}
		if child.Kind() == clang.Cursor_CXXBaseSpecifier {
			base = stripQualifier(child.Type().Spelling())
			return clang.ChildVisit_Break
		}
		return clang.ChildVisit_Continue
	})
	return base
}

// parseMethod recovers one method's metadata. is_override is not
// exposed directly on the cursor by this libclang binding, so it
// falls back to a token scan (§4.C).
func (w *walker) parseMethod(cursor clang.Cursor) model.MethodInfo {
	var params []model.ParamInfo
	cursor.Visit(func(child, _ clang.Cursor) clang.ChildVisitResult {
		if child.Kind() == clang.Cursor_ParmDecl {
			params = append(params, model.ParamInfo{
				Name:     child.Spelling(),
				TypeName: child.Type().Spelling(),
			})
		}
		return clang.ChildVisit_Continue
	})

	return model.MethodInfo{
		Name:       cursor.Spelling(),
		ReturnType: cursor.ResultType().Spelling(),
		Params:     params,
		IsConst:    cursor.IsConstMethod(),
		IsVirtual:  cursor.IsVirtualMethod(),
		IsOverride: hasOverrideToken(tokenSpellings(cursor)),
		Line:       cursorLine(cursor),
	}
}

// hasReflectAnnotation reports whether cursor carries a
// clang::annotate attribute whose spelling mentions "reflect" (§4.C).
func (w *walker) hasReflectAnnotation(cursor clang.Cursor) bool {
	found := false
	cursor.Visit(func(child, _ clang.Cursor) clang.ChildVisitResult {
		if child.Kind() == clang.Cursor_AnnotateAttr &&
			strings.Contains(strings.ToLower(child.Spelling()), "reflect") {
			found = true
			return clang.ChildVisit_Break
		}
		return clang.ChildVisit_Continue
	})
	return found
}

// namespaceOf walks the semantic-parent chain collecting enclosing
// namespace names, the same technique
// original_source/.../parser.py's _get_namespace uses. An anonymous
// namespace contributes no segment (§4.C "Name scoping").
func (w *walker) namespaceOf(cursor clang.Cursor) string {
	var parts []string
	parent := cursor.SemanticParent()
	for !parent.IsNull() && parent.Kind() != clang.Cursor_TranslationUnit {
		if parent.Kind() == clang.Cursor_Namespace {
			if spelling := parent.Spelling(); spelling != "" {
				parts = append([]string{spelling}, parts...)
			}
		}
		parent = parent.SemanticParent()
	}
	return strings.Join(parts, "::")
}

// extentText returns the exact source bytes spanned by cursor — the
// byte range §9 requires macro recognition to be scoped to, instead
// of a whole-file regex scan.
func (w *walker) extentText(cursor clang.Cursor) string {
	extent := cursor.Extent()
	_, _, _, startOffset := extent.Start().SpellingLocation()
	_, _, _, endOffset := extent.End().SpellingLocation()
	if int(endOffset) > len(w.content) || startOffset > endOffset {
		return ""
	}
	return w.content[startOffset:endOffset]
}

// qualifiedName strips a leading "P::" from fullQualified, or reduces
// it to the bare name when the class's namespace is exactly P (§4.C
// "Name scoping"). With projectNamespace == "" it always returns
// fullQualified unchanged.
func qualifiedName(fullQualified, projectNamespace string) string {
	if projectNamespace == "" {
		return fullQualified
	}
	prefix := projectNamespace + "::"
	if trimmed := strings.TrimPrefix(fullQualified, prefix); trimmed != fullQualified {
		return trimmed
	}
	return fullQualified
}

func cursorLine(cursor clang.Cursor) int {
	_, line, _, _ := cursor.Location().SpellingLocation()
	return int(line)
}

func tokenSpellings(cursor clang.Cursor) []string {
	tu := cursor.TranslationUnit()
	tokens := tu.Tokenize(cursor.Extent())
	spellings := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		spellings = append(spellings, tok.Spelling(tu))
	}
	return spellings
}
