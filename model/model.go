// Package model defines the typed entities for reflection metadata:
// files, classes, fields, methods, enums, and factory families, along
// with their JSON (de)serialization.
package model

import "time"

// ParamInfo describes a single method parameter.
type ParamInfo struct {
	Name     string `json:"name"`
	TypeName string `json:"type_name"`
}

// FieldInfo describes a reflected field.
type FieldInfo struct {
	Name     string `json:"name"`
	TypeName string `json:"type_name"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// MethodInfo describes a reflected method.
type MethodInfo struct {
	Name       string      `json:"name"`
	ReturnType string      `json:"return_type"`
	Params     []ParamInfo `json:"params"`
	IsConst    bool        `json:"is_const"`
	IsVirtual  bool        `json:"is_virtual"`
	IsOverride bool        `json:"is_override"`
	Line       int         `json:"line"`
}

// EnumValue is one constant of a reflected enum.
type EnumValue struct {
	Name  string `json:"name"`
	Value *int64 `json:"explicit_value,omitempty"`
}

// EnumInfo describes a reflected enum. The parser never populates this
// (§4.C); it exists so the cache and renderer have somewhere to put
// enum metadata declared through the separate CORE_ENUM mechanism.
type EnumInfo struct {
	Name           string      `json:"name"`
	QualifiedName  string      `json:"qualified_name"`
	Namespace      string      `json:"namespace"`
	UnderlyingType string      `json:"underlying_type"`
	Values         []EnumValue `json:"values"`
	Line           int         `json:"line"`
}

// ClassInfo describes a reflected class or struct.
type ClassInfo struct {
	Name              string       `json:"name"`
	QualifiedName     string       `json:"qualified_name"`
	FullQualifiedName string       `json:"full_qualified_name"`
	Namespace         string       `json:"namespace"`
	Fields            []FieldInfo  `json:"fields"`
	Methods           []MethodInfo `json:"methods"`
	IsFactoryBase     bool         `json:"is_factory_base"`
	ParentClass       string       `json:"parent_class,omitempty"`
	SourceFile        string       `json:"source_file"`
	Line              int          `json:"line"`
}

// FileMetadata is the cache's per-file unit of record.
type FileMetadata struct {
	Path        string      `json:"path"`
	ContentHash string      `json:"content_hash"`
	LastScanned time.Time   `json:"last_scanned"`
	Classes     []ClassInfo `json:"classes"`
	Enums       []EnumInfo  `json:"enums"`
}

// DerivedClass is one member of a FactoryFamily's derived-class list.
type DerivedClass struct {
	SimpleName        string
	ShortName         string
	FullQualifiedName string
	SourceFile        string
	IncludePath       string
}

// FactoryFamily pairs a factory-base class with its derived classes.
// It is produced by the resolver and never persisted to the cache.
type FactoryFamily struct {
	Base         ClassInfo
	EnumTypeName string
	FactoryName  string
	Derived      []DerivedClass
}
