// Package cache implements the file-keyed store of parsed reflection
// metadata (§4.D), ported from
// original_source/CI/meta_generator/core/cache.py's MetadataCache.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/b0gdan0v-bagi/BagiEngine/internal/hashutil"
	"github.com/b0gdan0v-bagi/BagiEngine/internal/log"
	"github.com/b0gdan0v-bagi/BagiEngine/internal/pathutil"
	"github.com/b0gdan0v-bagi/BagiEngine/internal/xerrors"
	"github.com/b0gdan0v-bagi/BagiEngine/model"
)

// SchemaVersion is the compiled-in cache schema version (§4.D). A
// mismatch on load discards all entries (invariant 6).
const SchemaVersion = "1.1"

// DefaultExtensions is the default header extension set (§4.D,
// SPEC_FULL §9.2 — the Python cache exposed this as a parameter the
// CLI never surfaced; kept as an internal default here too).
var DefaultExtensions = []string{".h", ".hpp", ".hxx"}

// CacheFileName is the on-disk file name under --cache-dir (§6).
const CacheFileName = "metadata_cache.json"

// Cache is the in-memory, file-backed store of FileMetadata.
type Cache struct {
	path  string
	files map[string]model.FileMetadata
	log   *log.Logger

	// seq tracks ingestion order per file path so duplicate
	// full_qualified_name resolution (invariant 2, §7 IntegrityError)
	// can deterministically prefer the most recently ingested file.
	seq      map[string]int64
	seqClock int64
}

type diskFormat struct {
	Version     string                     `json:"version"`
	GeneratedAt string                     `json:"generated_at"`
	Files       map[string]json.RawMessage `json:"files"`
}

// New constructs a Cache backed by <cacheDir>/metadata_cache.json.
func New(cacheDir string, logger *log.Logger) *Cache {
	return &Cache{
		path:  filepath.Join(cacheDir, CacheFileName),
		files: make(map[string]model.FileMetadata),
		seq:   make(map[string]int64),
		log:   logger,
	}
}

// Load reads the cache from disk. On schema mismatch or malformed
// JSON it discards all entries and returns false, never an error
// (§4.D, §7 CacheSchemaError degrades silently).
func (c *Cache) Load() bool {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return false
	}

	var disk diskFormat
	if err := json.Unmarshal(data, &disk); err != nil {
		c.files = make(map[string]model.FileMetadata)
		return false
	}

	if disk.Version != SchemaVersion {
		schemaErr := &xerrors.CacheSchemaError{Found: disk.Version, Want: SchemaVersion}
		if c.log != nil {
			c.log.Warn(schemaErr.Error())
		}
		c.files = make(map[string]model.FileMetadata)
		return false
	}

	files := make(map[string]model.FileMetadata, len(disk.Files))
	for path, raw := range disk.Files {
		fm, err := model.FileMetadataFromJSON(raw, c.warnFn())
		if err != nil {
			if c.log != nil {
				c.log.Warn("dropping malformed cache entry: " + err.Error())
			}
			continue
		}
		files[path] = fm
	}
	c.files = files

	return true
}

func (c *Cache) warnFn() model.WarnFunc {
	return func(msg string) {
		if c.log != nil {
			c.log.Warn(msg)
		}
	}
}

// Save writes the cache to disk via a temp file + rename, matching the
// teacher's own temp-file discipline in SerializeTranslationUnit.
func (c *Cache) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return errors.Wrap(err, "create cache directory")
	}

	rawFiles := make(map[string]json.RawMessage, len(c.files))
	for path, fm := range c.files {
		buf, err := fm.ToJSON()
		if err != nil {
			return errors.Wrapf(err, "marshal cache entry %s", path)
		}
		rawFiles[path] = buf
	}

	disk := diskFormat{
		Version:     SchemaVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Files:       rawFiles,
	}

	data, err := json.MarshalIndent(disk, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal cache")
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".metadata_cache-*.json")
	if err != nil {
		return errors.Wrap(err, "create cache temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "write cache temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "close cache temp file")
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "rename cache temp file")
	}

	return nil
}

// IsOutdated reports whether path has no cache entry or a hash that
// differs from its current content.
func (c *Cache) IsOutdated(path string) bool {
	key, err := pathutil.Canonical(path)
	if err != nil {
		key = path
	}

	entry, ok := c.files[key]
	if !ok {
		return true
	}
	return hashutil.FileSHA256(path) != entry.ContentHash
}

// EnumerateOutdated recursively scans each root for files matching
// extensions and returns those that are outdated (§4.D).
func (c *Cache) EnumerateOutdated(roots []string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	all, err := EnumerateAll(roots, extensions)
	if err != nil {
		return nil, err
	}

	outdated := make([]string, 0, len(all))
	for _, path := range all {
		if c.IsOutdated(path) {
			outdated = append(outdated, path)
		}
	}
	return outdated, nil
}

// EnumerateAll recursively scans each root for files with any of the
// given extensions, without filtering by staleness.
func EnumerateAll(roots []string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[ext] = true
	}

	var found []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		err = filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if fi.IsDir() {
				return nil
			}
			if extSet[filepath.Ext(path)] {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "scan %s", root)
		}
	}

	sort.Strings(found)
	return found, nil
}

// Ingest replaces the entry for path with fresh metadata and the
// currently-read content hash (§4.D).
func (c *Cache) Ingest(path string, classes []model.ClassInfo, enums []model.EnumInfo) error {
	key, err := pathutil.Canonical(path)
	if err != nil {
		return errors.Wrapf(err, "canonicalize %s", path)
	}

	c.files[key] = model.FileMetadata{
		Path:        key,
		ContentHash: hashutil.FileSHA256(path),
		LastScanned: time.Now().UTC(),
		Classes:     classes,
		Enums:       enums,
	}
	c.seqClock++
	c.seq[key] = c.seqClock
	return nil
}

// Remove deletes a single entry.
func (c *Cache) Remove(path string) {
	key, err := pathutil.Canonical(path)
	if err != nil {
		key = path
	}
	delete(c.files, key)
}

// Prune deletes entries for paths not present in presentPaths and
// returns the number removed.
func (c *Cache) Prune(presentPaths []string) int {
	present := make(map[string]bool, len(presentPaths))
	for _, p := range presentPaths {
		key, err := pathutil.Canonical(p)
		if err != nil {
			key = p
		}
		present[key] = true
	}

	removed := 0
	for key := range c.files {
		if !present[key] {
			delete(c.files, key)
			removed++
		}
	}
	return removed
}

// AllClasses returns every class from every cached file, ordered by
// full qualified name for determinism. When two classes share a
// full_qualified_name (invariant 2), the one from the most recently
// ingested file wins and the collision is reported (§7
// IntegrityError); entries loaded from disk without a recorded
// ingestion order are treated as older than anything ingested this
// run.
func (c *Cache) AllClasses() []model.ClassInfo {
	winners := make(map[string]model.ClassInfo)
	winnerFile := make(map[string]string)
	winnerSeq := make(map[string]int64)

	for path, fm := range c.files {
		fileSeq := c.seq[path]
		for _, cls := range fm.Classes {
			existing, ok := winners[cls.FullQualifiedName]
			if !ok {
				winners[cls.FullQualifiedName] = cls
				winnerFile[cls.FullQualifiedName] = path
				winnerSeq[cls.FullQualifiedName] = fileSeq
				continue
			}

			if existing.SourceFile == cls.SourceFile {
				continue
			}

			integrityErr := &xerrors.IntegrityError{
				FullQualifiedName: cls.FullQualifiedName,
				Paths:             []string{winnerFile[cls.FullQualifiedName], path},
			}
			if c.log != nil {
				c.log.Warn(integrityErr.Error())
			}

			if fileSeq >= winnerSeq[cls.FullQualifiedName] {
				winners[cls.FullQualifiedName] = cls
				winnerFile[cls.FullQualifiedName] = path
				winnerSeq[cls.FullQualifiedName] = fileSeq
			}
		}
	}

	classes := make([]model.ClassInfo, 0, len(winners))
	for _, cls := range winners {
		classes = append(classes, cls)
	}
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].FullQualifiedName < classes[j].FullQualifiedName
	})
	return classes
}

// AllEnums returns every enum from every cached file.
func (c *Cache) AllEnums() []model.EnumInfo {
	var enums []model.EnumInfo
	for _, fm := range c.files {
		enums = append(enums, fm.Enums...)
	}
	sort.Slice(enums, func(i, j int) bool {
		return enums[i].QualifiedName < enums[j].QualifiedName
	})
	return enums
}

// ClassesIn returns the classes recorded for a specific file.
func (c *Cache) ClassesIn(path string) []model.ClassInfo {
	key, err := pathutil.Canonical(path)
	if err != nil {
		key = path
	}
	return c.files[key].Classes
}

// EnumsIn returns the enums recorded for a specific file.
func (c *Cache) EnumsIn(path string) []model.EnumInfo {
	key, err := pathutil.Canonical(path)
	if err != nil {
		key = path
	}
	return c.files[key].Enums
}

// FactoryBases returns every class marked is_factory_base.
func (c *Cache) FactoryBases() []model.ClassInfo {
	var bases []model.ClassInfo
	for _, cls := range c.AllClasses() {
		if cls.IsFactoryBase {
			bases = append(bases, cls)
		}
	}
	return bases
}

// DerivedOf returns classes whose parent_class equals simpleName.
func (c *Cache) DerivedOf(simpleName string) []model.ClassInfo {
	var derived []model.ClassInfo
	for _, cls := range c.AllClasses() {
		if cls.ParentClass == simpleName {
			derived = append(derived, cls)
		}
	}
	return derived
}

// Stats reports counts of files, classes, enums, fields, methods and
// factory bases (§4.D).
type Stats struct {
	Files        int
	Classes      int
	Enums        int
	Fields       int
	Methods      int
	FactoryBases int
}

// Stats computes current cache statistics.
func (c *Cache) Stats() Stats {
	var s Stats
	s.Files = len(c.files)
	for _, fm := range c.files {
		s.Classes += len(fm.Classes)
		s.Enums += len(fm.Enums)
		for _, cls := range fm.Classes {
			s.Fields += len(cls.Fields)
			s.Methods += len(cls.Methods)
			if cls.IsFactoryBase {
				s.FactoryBases++
			}
		}
	}
	return s
}

// Has reports whether path already has a cache entry (used by the
// driver to decide whether a scan-dir file is "newly found", §4.G).
func (c *Cache) Has(path string) bool {
	key, err := pathutil.Canonical(path)
	if err != nil {
		key = path
	}
	_, ok := c.files[key]
	return ok
}
