// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// +build !nofastfa

package main

// Links in the fast engine. Build with "-tags nofastfa" to leave it out.
import _ "github.com/grailbio/refseq/encoding/fastfa"
