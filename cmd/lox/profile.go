// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/google/pprof/profile"
)

// dumpHeapProfile writes a pprof heap profile to path and logs a short
// summary of it, parsed back through google/pprof/profile rather than
// left opaque — useful for eyeballing real Go heap growth next to the
// VM's own simulated bytesAllocated ledger reported by telemetry.
func dumpHeapProfile(path string, logger interface{ Debugf(string, ...interface{}) }) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating heap profile %s: %w", path, err)
	}
	defer f.Close()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("writing heap profile: %w", err)
	}

	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("rewinding heap profile: %w", err)
	}
	p, err := profile.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing heap profile: %w", err)
	}

	var totalAlloc int64
	for _, sample := range p.Sample {
		for i, st := range p.SampleType {
			if st.Type == "alloc_space" {
				totalAlloc += sample.Value[i]
			}
		}
	}
	logger.Debugf("heap profile written to %s: %d samples, %d bytes alloc_space", path, len(p.Sample), totalAlloc)
	return nil
}
