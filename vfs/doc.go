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

// Package vfs defines the contract that file system nodes satisfy in order to
// be addressed polymorphically as either a file or a directory.
//
// The primary elements of interest are:
//
//  *  The Node interface, which is the union of FileOps (byte-addressable
//     content and attributes) and DirOps (lookup, creation, listing).
//
//  *  NonDirectory, which may be embedded by regular-file nodes to obtain
//     default implementations of DirOps that return ENOTDIR.
//
//  *  NewMetricsNode, which decorates any Node with Prometheus metrics.
package vfs
