package network

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/parser"
)

// LoadFile reads and builds the network described by the file at name.
func LoadFile(fsys afero.Fs, name string) (*Network, error) {
	data, err := afero.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading network file: %w", err)
	}
	net, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return net, nil
}

// LoadAttrFile parses the attribute file at name.
func LoadAttrFile(fsys afero.Fs, name string) (*attrs.Table, error) {
	data, err := afero.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading attribute file: %w", err)
	}
	tbl, err := parser.ParseAttrFile(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tbl, nil
}

// LoadAttrs merges <dir>/<node name>.toml into every node that has such a
// file. Nodes without a file are left untouched.
func (net *Network) LoadAttrs(fsys afero.Fs, dir string) error {
	for _, n := range net.nodes {
		name := filepath.Join(dir, n.name+".toml")
		tbl, err := LoadAttrFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		n.attrs.Merge(tbl)
	}
	return nil
}

// LoadAttrsGlob merges every attribute file matching the slash-separated
// pattern (e.g. "attrs/**/*.toml") into the node named by the file's base
// name. Files that name no node are skipped and returned.
func (net *Network) LoadAttrsGlob(fsys afero.Fs, pattern string) (skipped []string, err error) {
	matches, err := doublestar.Glob(afero.NewIOFS(fsys), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", pattern, err)
	}
	for _, m := range matches {
		name := strings.TrimSuffix(path.Base(m), path.Ext(m))
		n, ok := net.NodeByName(name)
		if !ok {
			skipped = append(skipped, m)
			continue
		}
		tbl, err := LoadAttrFile(fsys, m)
		if err != nil {
			return skipped, err
		}
		n.attrs.Merge(tbl)
	}
	return skipped, nil
}
