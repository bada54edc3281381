// Copyright 2025 the original author or authors.
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

package cli

import (
	"fmt"
	"os"

	pb "gopkg.in/cheggaaa/pb.v1"
)

// Counter tracks the records written to an output.
type Counter interface {
	// Increment records one more written record.
	Increment()

	// Close finishes tracking.
	Close() error
}

type nopCounter struct{}

func (nopCounter) Increment() {}

func (nopCounter) Close() error { return nil }

// progressBar is a Counter with an associated ProgressBar. Closing this
// instance clears the terminal line of progress output.
type progressBar struct {
	bar *pb.ProgressBar
}

// TrackOutputFile creates a Counter with an associated ProgressBar that
// tracks the records written to f relative to the total.
func TrackOutputFile(f *os.File, total int64) Counter {
	if f == os.Stdout {
		// progress would interleave with the records
		return nopCounter{}
	}

	bar := pb.New64(total).SetWidth(79)
	bar.Output = os.Stderr
	bar.ShowSpeed = true
	bar.Start()

	return progressBar{bar: bar}
}

func (p progressBar) Increment() {
	p.bar.Increment()
}

// Close implements io.Closer.Close by clearing the terminal line of progress
// output.
func (p progressBar) Close() error {
	// make sure newline is not printed by Finish()
	p.bar.Output = nil
	p.bar.NotPrint = true

	p.bar.Finish()

	fmt.Fprintf(os.Stderr, "\033[2K\r") // clear status bar

	return nil
}
