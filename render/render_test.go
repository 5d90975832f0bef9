package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/b0gdan0v-bagi/BagiEngine/model"
)

func TestRenderSourceSkipsEmptyFile(t *testing.T) {
	r := New()
	path, err := r.RenderSource(t.TempDir(), "/src/Empty.h", nil, nil)
	require.NoError(t, err)
	require.Empty(t, path)
}

func TestRenderSourceWritesStemFile(t *testing.T) {
	r := New()
	dir := t.TempDir()

	classes := []model.ClassInfo{{
		Name:              "Foo",
		QualifiedName:     "Foo",
		FullQualifiedName: "Proj::Foo",
		Fields: []model.FieldInfo{
			{Name: "count_", TypeName: "int"},
			{Name: "label_", TypeName: "BECore::Widget"},
		},
	}}

	path, err := r.RenderSource(dir, "/src/Foo.h", classes, nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Foo.gen.hpp"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "Proj::Foo")
	require.Contains(t, string(data), "count_")
	require.Contains(t, string(data), "(primitive)")
}

func TestRenderSourceDeterministicAcrossRuns(t *testing.T) {
	r := New()
	classes := []model.ClassInfo{{Name: "Foo", FullQualifiedName: "Proj::Foo"}}

	first, err := r.RenderSource(t.TempDir(), "/src/Foo.h", classes, nil)
	require.NoError(t, err)
	firstData, err := os.ReadFile(first)
	require.NoError(t, err)

	second, err := r.RenderSource(t.TempDir(), "/src/Foo.h", classes, nil)
	require.NoError(t, err)
	secondData, err := os.ReadFile(second)
	require.NoError(t, err)

	require.Equal(t, firstData, secondData)
}

func TestRenderFactoryWritesEnumAndFactory(t *testing.T) {
	r := New()
	dir := t.TempDir()

	family := model.FactoryFamily{
		Base:         model.ClassInfo{Name: "ILogSink", FullQualifiedName: "Proj::ILogSink"},
		EnumTypeName: "LogSinkType",
		FactoryName:  "LogSinkFactory",
		Derived: []model.DerivedClass{
			{SimpleName: "ConsoleSink", ShortName: "Console", FullQualifiedName: "Proj::ConsoleSink", IncludePath: "ConsoleSink.h"},
			{SimpleName: "FileSink", ShortName: "File", FullQualifiedName: "Proj::FileSink", IncludePath: "FileSink.h"},
		},
	}

	path, err := r.RenderFactory(dir, family)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "EnumLogSink.gen.hpp"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "enum class LogSinkType")
	require.Contains(t, string(data), "Console,")
	require.Contains(t, string(data), "class LogSinkFactory")
	require.Contains(t, string(data), `#include "ConsoleSink.h"`)
}
