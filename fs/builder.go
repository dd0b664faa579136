// Package fs writes Dash/Zeal docset bundles to the local filesystem.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/zealgen"
)

// Bundle layout names.
const (
	IndexFilename = "docSet.dsidx"
	PlistFilename = "Info.plist"
	IconFilename  = "icon.png"

	defaultIndexPage = "index.html"
	docsetExt        = ".docset"
)

// IndexOpener opens the search index stored at path.
type IndexOpener func(path string) (zealgen.Index, error)

// Ensure Builder implements zealgen.DocsetBuilder at compile time.
var _ zealgen.DocsetBuilder = (*Builder)(nil)

// Builder assembles a docset bundle:
//
//	<Name>.docset/
//	  Contents/
//	    Info.plist
//	    icon.png
//	    Resources/
//	      docSet.dsidx
//	      Documents/
//
// A Builder is single-writer; callers serialize all calls.
type Builder struct {
	path      string
	name      string
	contents  string
	resources string
	documents string

	index     zealgen.Index
	firstPage string
	written   map[string]bool
	hasIcon   bool
	finalized bool
}

// NewBuilder deletes anything at path, recreates the bundle directories and
// opens a fresh index through openIndex.
func NewBuilder(path string, openIndex IndexOpener) (*Builder, error) {
	path = filepath.Clean(path)
	name := DocsetName(path)
	if name == "" || path == string(filepath.Separator) || path == "." {
		return nil, zealgen.Errorf(zealgen.EINVALID, "invalid docset path %q", path)
	}

	b := &Builder{
		path:    path,
		name:    name,
		written: make(map[string]bool),
	}
	b.contents = filepath.Join(path, "Contents")
	b.resources = filepath.Join(b.contents, "Resources")
	b.documents = filepath.Join(b.resources, "Documents")

	if err := os.RemoveAll(path); err != nil {
		return nil, zealgen.Errorf(zealgen.EIO, "removing existing bundle: %w", err)
	}
	if err := os.MkdirAll(b.documents, 0o755); err != nil {
		return nil, zealgen.Errorf(zealgen.EIO, "creating bundle directories: %w", err)
	}

	index, err := openIndex(filepath.Join(b.resources, IndexFilename))
	if err != nil {
		return nil, zealgen.Errorf(zealgen.EIO, "opening index: %w", err)
	}
	b.index = index

	return b, nil
}

// DocsetName returns the bundle name for an output path: its base name
// without the ".docset" extension.
func DocsetName(path string) string {
	return strings.TrimSuffix(filepath.Base(filepath.Clean(path)), docsetExt)
}

// Name returns the bundle name.
func (b *Builder) Name() string { return b.name }

// Path returns the bundle root directory.
func (b *Builder) Path() string { return b.path }

// DocumentsPath returns the directory holding pages and assets.
func (b *Builder) DocumentsPath() string { return b.documents }

// AddPage writes the page's content to Documents/ under the name derived
// from sourceURL and indexes its symbols. A later page with the same
// filename replaces the earlier document.
func (b *Builder) AddPage(ctx context.Context, page *zealgen.ParsedPage, sourceURL string) error {
	filename := zealgen.FilenameFor(sourceURL)
	if b.firstPage == "" {
		b.firstPage = filename
	}

	if err := os.WriteFile(filepath.Join(b.documents, filename), []byte(page.Content), 0o644); err != nil {
		return zealgen.Errorf(zealgen.EIO, "writing document %s: %w", filename, err)
	}
	b.written[filename] = true

	for _, sym := range page.Symbols {
		if err := b.index.AddEntry(ctx, zealgen.NewIndexEntry(sym, filename)); err != nil {
			return zealgen.Errorf(zealgen.EIO, "indexing %s: %w", filename, err)
		}
	}
	return nil
}

// WriteAsset stores data in Documents/ under name. Only the base name is
// used, so assets cannot escape the bundle. Names already taken by a
// document are rejected.
func (b *Builder) WriteAsset(name string, data []byte) error {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return zealgen.Errorf(zealgen.EINVALID, "invalid asset name %q", name)
	}
	if b.written[base] {
		return zealgen.Errorf(zealgen.EINVALID, "asset %s would replace a document", base)
	}
	if err := os.WriteFile(filepath.Join(b.documents, base), data, 0o644); err != nil {
		return zealgen.Errorf(zealgen.EIO, "writing asset %s: %w", base, err)
	}
	return nil
}

// SetIcon writes Contents/icon.png. Once an icon is stored later calls do nothing.
func (b *Builder) SetIcon(data []byte) error {
	if b.hasIcon {
		return nil
	}
	if len(data) == 0 {
		return zealgen.Errorf(zealgen.EINVALID, "empty icon")
	}
	if err := os.WriteFile(filepath.Join(b.contents, IconFilename), data, 0o644); err != nil {
		return zealgen.Errorf(zealgen.EIO, "writing icon: %w", err)
	}
	b.hasIcon = true
	return nil
}

// HasIcon reports whether an icon has been stored.
func (b *Builder) HasIcon() bool { return b.hasIcon }

// IndexPage returns the page the viewer opens first: index.html if one was
// written, otherwise the first page added.
func (b *Builder) IndexPage() string {
	if b.written[defaultIndexPage] || b.firstPage == "" {
		return defaultIndexPage
	}
	return b.firstPage
}

// Finalize writes Info.plist and closes the index. Calling it again is a no-op.
func (b *Builder) Finalize() error {
	if b.finalized {
		return nil
	}
	b.finalized = true

	if err := b.writePlist(); err != nil {
		b.index.Close()
		return err
	}
	if err := b.index.Close(); err != nil {
		return zealgen.Errorf(zealgen.EIO, "closing index: %w", err)
	}
	return nil
}

func (b *Builder) writePlist() error {
	id := strings.ToLower(b.name)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(`DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd"`)

	plist := doc.CreateElement("plist")
	plist.CreateAttr("version", "1.0")
	dict := plist.CreateElement("dict")

	addString(dict, "CFBundleIdentifier", id)
	addString(dict, "CFBundleName", b.name)
	addString(dict, "DocSetPlatformFamily", id)
	dict.CreateElement("key").SetText("isDashDocset")
	dict.CreateElement("true")
	addString(dict, "dashIndexFilePath", b.IndexPage())

	doc.Indent(2)
	if err := doc.WriteToFile(filepath.Join(b.contents, PlistFilename)); err != nil {
		return zealgen.Errorf(zealgen.EIO, "writing %s: %w", PlistFilename, err)
	}
	return nil
}

func addString(dict *etree.Element, key, value string) {
	dict.CreateElement("key").SetText(key)
	dict.CreateElement("string").SetText(value)
}
