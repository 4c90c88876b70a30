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

package vfs

import (
	"os"
)

// The kind of a node.
type NodeType uint8

const (
	TypeUnknown NodeType = iota
	TypeFile
	TypeDir
	TypeSymlink
)

func (t NodeType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDir:
		return "dir"
	case TypeSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// Permission bits of a node, in the usual rwxrwxrwx layout.
type NodePerm uint16

const (
	DefaultFilePerm NodePerm = 0666
	DefaultDirPerm  NodePerm = 0755
)

// The attributes of a node, as returned by FileOps.GetAttr.
//
// The record is a best-effort snapshot: implementations may read the size and
// the timestamps at different instants.
type NodeAttr struct {
	Mode NodePerm
	Type NodeType

	// The size of the node's content in bytes, and the number of blocks
	// allocated to it. Nodes that don't model block allocation report zero.
	Size   uint64
	Blocks uint64

	// Last access and modification times. Their units are chosen by whoever
	// calls SetAtime and SetMtime; nodes store them verbatim.
	Atime uint64
	Mtime uint64
}

// Return attributes for a regular file with default permissions.
func NewFileAttr(size uint64, blocks uint64) NodeAttr {
	return NodeAttr{
		Mode:   DefaultFilePerm,
		Type:   TypeFile,
		Size:   size,
		Blocks: blocks,
	}
}

// Return attributes for a directory with default permissions.
func NewDirAttr(size uint64, blocks uint64) NodeAttr {
	return NodeAttr{
		Mode:   DefaultDirPerm,
		Type:   TypeDir,
		Size:   size,
		Blocks: blocks,
	}
}

func (a *NodeAttr) IsDir() bool {
	return a.Type == TypeDir
}

// Convert the type and permission bits to an os.FileMode.
func (a *NodeAttr) FileMode() os.FileMode {
	m := os.FileMode(a.Mode) & os.ModePerm
	switch a.Type {
	case TypeDir:
		m |= os.ModeDir
	case TypeSymlink:
		m |= os.ModeSymlink
	}

	return m
}

// An entry within a directory, describing a child. See DirOps.ReadDir.
type DirEntry struct {
	Name string
	Type NodeType
}

// Operations supported by nodes with byte-addressable content.
type FileOps interface {
	// Return the node's current attributes.
	GetAttr() (NodeAttr, error)

	// Set the content length to size, discarding bytes beyond it or
	// zero-filling up to it.
	Truncate(size uint64) error

	// Copy the overlap of [offset, offset+len(buf)) and the content into the
	// start of buf, returning the number of bytes copied. Reading at or beyond
	// the end of the content copies nothing and is not an error.
	ReadAt(offset uint64, buf []byte) (n int, err error)

	// Write all of buf at offset, zero-filling any gap between the current end
	// of the content and offset.
	WriteAt(offset uint64, buf []byte) (n int, err error)

	SetAtime(t uint64) error
	SetMtime(t uint64) error
}

// Operations supported by directory nodes.
type DirOps interface {
	// Find the child with the given name.
	Lookup(name string) (Node, error)

	// Create a child with the given name and type.
	Create(name string, t NodeType) error

	// Remove the child with the given name.
	Remove(name string) error

	// Fill entries with the children starting at index start, returning the
	// number of entries filled.
	ReadDir(start int, entries []DirEntry) (n int, err error)
}

// A node within a file system. Regular files implement FileOps and embed
// NonDirectory for the rest; directories do the converse.
type Node interface {
	FileOps
	DirOps

	// Called when a handle to the node is opened and released.
	Open() error
	Release() error

	// Flush any buffered state for the node.
	Fsync() error

	// Return the directory containing this node, or nil if unknown.
	Parent() Node
}
