// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// +build !linux,!darwin

package fastfa

import "errors"

var errNoMmap = errors.New("fastfa: mmap not supported")

func mmapFile(path string) ([]byte, func() error, error) {
	return nil, nil, errNoMmap
}
