// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"errors"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// ExecutableInPath finds command name in path
func ExecutableInPath(file string) (string, bool, error) {
	f, err := exec.LookPath(file)

	return f, err == nil, err
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func IsDirectory(path string) bool {
	stat, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	if stat == nil {
		return false
	}

	return stat.IsDir()
}

// DirIsWritable checks the directory can be written to by this process,
// tools are run from the metadata file directory and produce outputs there
func DirIsWritable(path string) bool {
	if !IsDirectory(path) {
		return false
	}

	return unix.Access(path, unix.W_OK) == nil
}
