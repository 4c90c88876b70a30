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
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

const (
	// Errors corresponding to kernel error numbers. Node methods return these
	// so that a FUSE layer can hand them to the kernel unchanged.
	EEXIST    = unix.EEXIST
	EFBIG     = unix.EFBIG
	EINVAL    = unix.EINVAL
	EIO       = unix.EIO
	EISDIR    = unix.EISDIR
	ENOENT    = unix.ENOENT
	ENOSYS    = unix.ENOSYS
	ENOTDIR   = unix.ENOTDIR
	ENOTEMPTY = unix.ENOTEMPTY
)

// Convert an error returned by a node to an error number. Errors that don't
// wrap a syscall.Errno become EIO.
func ToErrno(err error) syscall.Errno {
	if err == nil {
		return 0
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}

	return EIO
}
