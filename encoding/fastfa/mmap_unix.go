// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// +build linux darwin

package fastfa

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

var errNoMmap = errors.New("fastfa: mmap not supported")

// mmapFile maps the whole file read-only. The returned func unmaps it.
func mmapFile(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() // nolint: errcheck
	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if info.Size() == 0 || !info.Mode().IsRegular() {
		return nil, nil, errNoMmap
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL) // advisory only
	return data, func() error { return unix.Munmap(data) }, nil
}
