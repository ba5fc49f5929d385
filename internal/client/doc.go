// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It wires the terminal UI to the server adapter and owns the process
// lifecycle: signal handling, the startup version check and exit status.
package client
