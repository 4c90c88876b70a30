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

// Embed this within your regular-file node type to inherit default
// implementations of all DirOps methods, which return ENOTDIR, together with
// no-op implementations of Open, Release, Fsync and Parent.
type NonDirectory struct {
}

var _ DirOps = &NonDirectory{}

func (nd *NonDirectory) Lookup(name string) (Node, error) {
	return nil, ENOTDIR
}

func (nd *NonDirectory) Create(name string, t NodeType) error {
	return ENOTDIR
}

func (nd *NonDirectory) Remove(name string) error {
	return ENOTDIR
}

func (nd *NonDirectory) ReadDir(start int, entries []DirEntry) (int, error) {
	return 0, ENOTDIR
}

func (nd *NonDirectory) Open() error {
	return nil
}

func (nd *NonDirectory) Release() error {
	return nil
}

func (nd *NonDirectory) Fsync() error {
	return nil
}

func (nd *NonDirectory) Parent() Node {
	return nil
}
