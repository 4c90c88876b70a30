// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ramfuse exposes in-memory regular files through FUSE.
package ramfuse

import (
	"context"
	"fmt"
	"strings"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/jacobsa/ramfs/ramfs"
	"github.com/jacobsa/ramfs/vfs"
	"github.com/jacobsa/timeutil"
	"github.com/rs/zerolog"
)

// The file size limit used when Config.MaxFileSize is zero.
const DefaultMaxFileSize = 1 << 30

// Options for NewFileSystem.
type Config struct {
	// The names of the files in the root directory. Each is backed by its own
	// empty ramfs.FileNode.
	Files []string

	// Used to stamp atime and mtime. Defaults to timeutil.RealClock().
	Clock timeutil.Clock

	// Writes and truncations through the kernel that would take a file beyond
	// this many bytes fail with EFBIG. Defaults to DefaultMaxFileSize.
	MaxFileSize uint64

	// Wrap each node with vfs.NewMetricsNode.
	EnableMetrics bool

	// Receives per-operation debug messages. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// A file system with a fixed structure that looks like this:
//
//     <Files[0]>
//     <Files[1]>
//     ...
//
// The set of files can't change, but their contents and timestamps can.
type FileSystem struct {
	root  *rootDir
	nodes map[string]vfs.Node
}

// Create a file system containing one empty file per configured name. Names
// must be unique, non-empty, and free of path separators.
func NewFileSystem(cfg Config) (*FileSystem, error) {
	if cfg.Clock == nil {
		cfg.Clock = timeutil.RealClock()
	}

	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	rfs := &FileSystem{
		nodes: make(map[string]vfs.Node),
	}

	root := &rootDir{}

	for _, name := range cfg.Files {
		if err := checkName(name); err != nil {
			return nil, err
		}

		if _, ok := rfs.nodes[name]; ok {
			return nil, fmt.Errorf("file name %q: %w", name, vfs.EEXIST)
		}

		var node vfs.Node = ramfs.NewFileNode()
		if cfg.EnableMetrics {
			node = vfs.NewMetricsNode(node, cfg.Clock)
		}

		rfs.nodes[name] = node
		root.children = append(root.children, &file{
			node:    node,
			clock:   cfg.Clock,
			logger:  logger.With().Str("file", name).Logger(),
			maxSize: cfg.MaxFileSize,
		})
		root.names = append(root.names, name)
	}

	rfs.root = root
	return rfs, nil
}

func checkName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("file name %q: %w", name, vfs.EINVAL)

	case strings.ContainsAny(name, "/\x00"):
		return fmt.Errorf("file name %q: %w", name, vfs.EINVAL)
	}

	return nil
}

// Return the node backing the file with the given name.
func (rfs *FileSystem) Node(name string) (node vfs.Node, ok bool) {
	node, ok = rfs.nodes[name]
	return
}

// Return the root inode, for use with fs.Mount.
func (rfs *FileSystem) Root() fs.InodeEmbedder {
	return rfs.root
}

////////////////////////////////////////////////////////////////////////
// Root directory
////////////////////////////////////////////////////////////////////////

type rootDir struct {
	fs.Inode

	/////////////////////////
	// Constant data
	/////////////////////////

	// INVARIANT: len(names) == len(children)
	names    []string
	children []*file
}

var _ = (fs.NodeOnAdder)((*rootDir)(nil))
var _ = (fs.NodeGetattrer)((*rootDir)(nil))

func (r *rootDir) OnAdd(ctx context.Context) {
	for i, child := range r.children {
		inode := r.NewPersistentInode(
			ctx,
			child,
			fs.StableAttr{Mode: syscall.S_IFREG})

		r.AddChild(r.names[i], inode, false)
	}
}

func (r *rootDir) Getattr(
	ctx context.Context,
	fh fs.FileHandle,
	out *fuse.AttrOut) syscall.Errno {
	out.Mode = syscall.S_IFDIR | uint32(vfs.DefaultDirPerm)
	out.Nlink = 2
	return 0
}
