// Copyright (c) 2026, the ESPA Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
)

var (
	ErrInvalidProgram    = errors.New("invalid program name")
	ErrNoActionRequested = errors.New("no output product specified to be processed")
	ErrMissingInputFile  = errors.New("input file does not exist or is not accessible")
	ErrInvalidSatellite  = errors.New("metadata specifies an unsupported satellite")
	ErrInvalidMetadata   = errors.New("invalid scene metadata")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrInvalidRequest    = errors.New("invalid request")
)
