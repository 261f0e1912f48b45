// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"os"
)

// File writes logger events to a file, for a host application that wants
// a persistent record of a World's step-loop diagnostics (island counts,
// TOI sub-step counts, sleep transitions) across a long-running process
// rather than whatever scrolled past on Console.
type File struct {
	writer *os.File
}

// NewFile opens (creating and appending to, if needed) filename and
// returns a File writer over it, suitable for Logger.AddWriter.
func NewFile(filename string) (*File, error) {

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}
	return &File{file}, nil
}

// Write writes the provided logger event to the file.
func (f *File) Write(event *Event) {

	f.writer.Write([]byte(event.fmsg))
}

// Close closes the file.
func (f *File) Close() {

	f.writer.Close()
	f.writer = nil
}

// Sync commits the current contents of the file to stable storage.
func (f *File) Sync() {

	f.writer.Sync()
}
