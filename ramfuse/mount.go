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

package ramfuse

import (
	"fmt"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// Options for Mount.
type MountConfig struct {
	// The name shown as the source of the mount, e.g. in /proc/mounts.
	FSName string

	// Log every FUSE request and response to stderr.
	Debug bool
}

// Mount the file system at dir, returning once the kernel has accepted the
// mount. Call Wait on the result to block until it is unmounted.
func Mount(
	dir string,
	rfs *FileSystem,
	cfg *MountConfig) (*fuse.Server, error) {
	// The node layer never changes content on its own, but other handles may,
	// so keep attribute caching short.
	timeout := time.Second

	opts := &fs.Options{
		AttrTimeout:  &timeout,
		EntryTimeout: &timeout,
		MountOptions: fuse.MountOptions{
			FsName: cfg.FSName,
			Name:   "ramfs",
			Debug:  cfg.Debug,
		},
	}

	server, err := fs.Mount(dir, rfs.Root(), opts)
	if err != nil {
		return nil, fmt.Errorf("fs.Mount: %w", err)
	}

	return server, nil
}
