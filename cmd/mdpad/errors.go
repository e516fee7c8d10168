package main

import "errors"

// CLI errors. Library and config errors are mapped by exitCodeFor.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrAmbiguousRef = errors.New("ambiguous document reference")
	ErrReadInput    = errors.New("failed to read input")
	ErrWriteOutput  = errors.New("failed to write output")
	ErrFileExists   = errors.New("file already exists")
)
