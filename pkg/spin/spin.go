// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package spin wraps yacspin to show progress for long-running operations.
package spin

import (
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/theckman/yacspin"
)

// writer is a package-level variable so tests can capture spinner output.
var writer io.Writer = colorable.NewColorableStdout()

type Spinner struct {
	spinner *yacspin.Spinner
}

// New creates a spinner with the given title. The spinner is not running
// until Start or Run is called.
func New(title string) *Spinner {
	config := yacspin.Config{
		Frequency: 200 * time.Millisecond,
		CharSet:   yacspin.CharSets[9],
		Message:   " " + title,
		Writer:    writer,
	}

	// the config above is statically valid, yacspin.New only fails on an
	// invalid config
	spinner, err := yacspin.New(config)
	if err != nil {
		panic(fmt.Sprintf("creating spinner: %v", err))
	}

	return &Spinner{spinner: spinner}
}

func (s *Spinner) Start() error {
	return s.spinner.Start()
}

func (s *Spinner) Stop() error {
	return s.spinner.Stop()
}

// UpdateText replaces the message shown next to the spinner animation.
func (s *Spinner) UpdateText(text string) {
	s.spinner.Message(" " + text)
}

// Println writes a line above the spinner without corrupting the animation.
func (s *Spinner) Println(message string) {
	_ = s.spinner.Pause()
	fmt.Fprintln(writer, message)
	_ = s.spinner.Unpause()
}

// Run executes fn while the spinner animates, stopping it when fn returns.
func (s *Spinner) Run(fn func() error) error {
	if err := s.spinner.Start(); err != nil {
		return fn()
	}
	defer func() { _ = s.spinner.Stop() }()

	return fn()
}
