package model

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// validate is shared across the package the way a single
// validator.Validate instance is shared across a service in the
// corpus (jordigilh-kubernaut, ternarybob-quaero) rather than
// constructed per call.
var validate = validator.New()

type fieldShadow struct {
	Name     string `json:"name" validate:"required"`
	TypeName string `json:"type_name" validate:"required"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

type paramShadow struct {
	Name     string `json:"name"`
	TypeName string `json:"type_name" validate:"required"`
}

type methodShadow struct {
	Name       string        `json:"name" validate:"required"`
	ReturnType string        `json:"return_type" validate:"required"`
	Params     []paramShadow `json:"params"`
	IsConst    bool          `json:"is_const"`
	IsVirtual  bool          `json:"is_virtual"`
	IsOverride bool          `json:"is_override"`
	Line       int           `json:"line"`
}

type enumValueShadow struct {
	Name  string `json:"name" validate:"required"`
	Value *int64 `json:"explicit_value,omitempty"`
}

type enumShadow struct {
	Name           string            `json:"name" validate:"required"`
	QualifiedName  string            `json:"qualified_name" validate:"required"`
	Namespace      string            `json:"namespace"`
	UnderlyingType string            `json:"underlying_type"`
	Values         []enumValueShadow `json:"values"`
	Line           int               `json:"line"`
}

type classShadow struct {
	Name              string         `json:"name" validate:"required"`
	QualifiedName     string         `json:"qualified_name" validate:"required"`
	FullQualifiedName string         `json:"full_qualified_name" validate:"required"`
	Namespace         string         `json:"namespace"`
	Fields            []fieldShadow  `json:"fields"`
	Methods           []methodShadow `json:"methods"`
	IsFactoryBase     bool           `json:"is_factory_base"`
	ParentClass       string         `json:"parent_class,omitempty"`
	SourceFile        string         `json:"source_file"`
	Line              int            `json:"line"`
}

type fileShadow struct {
	Path        string        `json:"path" validate:"required"`
	ContentHash string        `json:"content_hash" validate:"required"`
	LastScanned string        `json:"last_scanned"`
	Classes     []classShadow `json:"classes"`
	Enums       []enumShadow  `json:"enums"`
}

// WarnFunc receives a human-readable message about a dropped entry
// during a tolerant decode. Callers (the cache) wire this to their
// logger; model itself stays logging-agnostic to avoid an import
// cycle with internal/log.
type WarnFunc func(msg string)

func noopWarn(string) {}

// ToJSON serializes a FileMetadata to its stable cache representation.
func (f FileMetadata) ToJSON() ([]byte, error) {
	buf, err := json.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(err, "marshal file metadata")
	}
	return buf, nil
}

// FileMetadataFromJSON decodes one FileMetadata entry. Unknown optional
// fields are ignored by default; classes/enums/fields/methods that fail
// required-field validation are dropped individually (with warn called
// for each) rather than invalidating the whole file entry.
func FileMetadataFromJSON(data []byte, warn WarnFunc) (FileMetadata, error) {
	if warn == nil {
		warn = noopWarn
	}

	var shadow fileShadow
	if err := json.Unmarshal(data, &shadow); err != nil {
		return FileMetadata{}, errors.Wrap(err, "unmarshal file metadata")
	}
	if err := validate.Struct(shadow); err != nil {
		return FileMetadata{}, errors.Wrap(err, "invalid file metadata entry")
	}

	fm := FileMetadata{
		Path:        shadow.Path,
		ContentHash: shadow.ContentHash,
		Classes:     make([]ClassInfo, 0, len(shadow.Classes)),
		Enums:       make([]EnumInfo, 0, len(shadow.Enums)),
	}
	if shadow.LastScanned != "" {
		if t, err := time.Parse(time.RFC3339, shadow.LastScanned); err == nil {
			fm.LastScanned = t
		} else {
			warn("file " + shadow.Path + ": invalid last_scanned timestamp, using zero value")
		}
	}

	for _, c := range shadow.Classes {
		if err := validate.Struct(c); err != nil {
			warn("file " + shadow.Path + ": dropping invalid class entry: " + err.Error())
			continue
		}
		fm.Classes = append(fm.Classes, classFromShadow(c, shadow.Path, warn))
	}

	for _, e := range shadow.Enums {
		if err := validate.Struct(e); err != nil {
			warn("file " + shadow.Path + ": dropping invalid enum entry: " + err.Error())
			continue
		}
		fm.Enums = append(fm.Enums, enumFromShadow(e))
	}

	return fm, nil
}

func classFromShadow(c classShadow, path string, warn WarnFunc) ClassInfo {
	cls := ClassInfo{
		Name:              c.Name,
		QualifiedName:     c.QualifiedName,
		FullQualifiedName: c.FullQualifiedName,
		Namespace:         c.Namespace,
		IsFactoryBase:     c.IsFactoryBase,
		ParentClass:       c.ParentClass,
		SourceFile:        c.SourceFile,
		Line:              c.Line,
		Fields:            make([]FieldInfo, 0, len(c.Fields)),
		Methods:           make([]MethodInfo, 0, len(c.Methods)),
	}
	for _, f := range c.Fields {
		if err := validate.Struct(f); err != nil {
			warn("file " + path + ": dropping invalid field entry: " + err.Error())
			continue
		}
		cls.Fields = append(cls.Fields, FieldInfo{
			Name:     f.Name,
			TypeName: f.TypeName,
			Line:     f.Line,
			Column:   f.Column,
		})
	}
	for _, m := range c.Methods {
		if err := validate.Struct(m); err != nil {
			warn("file " + path + ": dropping invalid method entry: " + err.Error())
			continue
		}
		params := make([]ParamInfo, 0, len(m.Params))
		for _, p := range m.Params {
			params = append(params, ParamInfo{Name: p.Name, TypeName: p.TypeName})
		}
		cls.Methods = append(cls.Methods, MethodInfo{
			Name:       m.Name,
			ReturnType: m.ReturnType,
			Params:     params,
			IsConst:    m.IsConst,
			IsVirtual:  m.IsVirtual,
			IsOverride: m.IsOverride,
			Line:       m.Line,
		})
	}
	return cls
}

func enumFromShadow(e enumShadow) EnumInfo {
	underlying := e.UnderlyingType
	if underlying == "" {
		underlying = "int"
	}
	values := make([]EnumValue, 0, len(e.Values))
	for _, v := range e.Values {
		values = append(values, EnumValue{Name: v.Name, Value: v.Value})
	}
	return EnumInfo{
		Name:           e.Name,
		QualifiedName:  e.QualifiedName,
		Namespace:      e.Namespace,
		UnderlyingType: underlying,
		Values:         values,
		Line:           e.Line,
	}
}
