// Package render turns cached metadata and resolved factory families
// into deterministic C++ headers (§4.F), grounded on
// original_source/CI/meta_generator/core/generator.py's
// render_reflection/render_factory and on the corpus's one
// end-to-end template user, ternarybob-quaero's
// internal/handlers/{ui,page_handler}.go, which parses and executes
// text/template trees at startup the same way this package parses its
// embedded trees once in New.
package render

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/b0gdan0v-bagi/BagiEngine/internal/reflecttype"
	"github.com/b0gdan0v-bagi/BagiEngine/internal/xerrors"
	"github.com/b0gdan0v-bagi/BagiEngine/model"
	"github.com/b0gdan0v-bagi/BagiEngine/resolver"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer renders the two generated-header kinds §4.F names. It
// parses its templates once at construction, the same way the
// teacher's builtinheader assets are all dumped once at Parser
// construction rather than per call.
type Renderer struct {
	sourceTmpl  *template.Template
	factoryTmpl *template.Template
}

// New parses the embedded templates. A parse failure here means the
// binary itself is broken, not a per-run condition, so it panics the
// way a missing embed.FS entry would during init elsewhere in the
// corpus.
func New() *Renderer {
	return &Renderer{
		sourceTmpl:  template.Must(template.ParseFS(templateFS, "templates/reflection.gen.hpp.tmpl")),
		factoryTmpl: template.Must(template.ParseFS(templateFS, "templates/enum_factory.gen.hpp.tmpl")),
	}
}

// renderField adds the derived is_primitive flag (§4.F) to template
// data without storing it permanently on model.FieldInfo.
type renderField struct {
	model.FieldInfo
	IsPrimitive bool
}

type renderClass struct {
	model.ClassInfo
	Fields []renderField
}

type sourceData struct {
	Classes []renderClass
	Enums   []model.EnumInfo
}

// RenderSource renders <stem>.gen.hpp for one parsed file, skipping
// files with no reflected entities (§4.F "one header per parsed
// source file that contains reflected entities"). It returns "" when
// nothing was rendered.
func (r *Renderer) RenderSource(outputDir, sourcePath string, classes []model.ClassInfo, enums []model.EnumInfo) (string, error) {
	if len(classes) == 0 && len(enums) == 0 {
		return "", nil
	}

	data := sourceData{Enums: enums}
	for _, cls := range classes {
		rc := renderClass{ClassInfo: cls}
		for _, f := range cls.Fields {
			rc.Fields = append(rc.Fields, renderField{
				FieldInfo:   f,
				IsPrimitive: reflecttype.IsPrimitive(f.TypeName),
			})
		}
		data.Classes = append(data.Classes, rc)
	}

	stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	outPath := filepath.Join(outputDir, stem+".gen.hpp")

	var buf bytes.Buffer
	if err := r.sourceTmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "render %s", outPath)
	}

	if err := writeFile(outPath, buf.Bytes()); err != nil {
		return "", err
	}
	return outPath, nil
}

type factoryData struct {
	model.FactoryFamily
	Includes []string
}

// RenderFactory renders Enum<strip_leading_I(base)>.gen.hpp for one
// factory family (§4.F). Always overwrites (§4.F "Rewrite policy").
func (r *Renderer) RenderFactory(outputDir string, family model.FactoryFamily) (string, error) {
	includes := make([]string, 0, len(family.Derived))
	seen := make(map[string]bool, len(family.Derived))
	for _, d := range family.Derived {
		if d.IncludePath == "" || seen[d.IncludePath] {
			continue
		}
		seen[d.IncludePath] = true
		includes = append(includes, d.IncludePath)
	}
	sort.Strings(includes)

	data := factoryData{FactoryFamily: family, Includes: includes}

	outPath := filepath.Join(outputDir, resolver.EnumOutputFilename(family.Base.Name))

	var buf bytes.Buffer
	if err := r.factoryTmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "render %s", outPath)
	}

	if err := writeFile(outPath, buf.Bytes()); err != nil {
		return "", err
	}
	return outPath, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(&xerrors.IOError{Path: path, Err: err}, "create output directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(&xerrors.IOError{Path: path, Err: err}, "write generated header")
	}
	return nil
}
