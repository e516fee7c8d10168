package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-mdpad/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Getenv func(string) string
	Config *config.Config // used when --config is not given
}

// DefaultEnv returns the process environment with the default config.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		Getenv: os.Getenv,
		Config: config.DefaultConfig(),
	}
}

// getenv returns Getenv, or os.Getenv when unset.
func (e *Environment) getenv() func(string) string {
	if e.Getenv == nil {
		return os.Getenv
	}
	return e.Getenv
}
