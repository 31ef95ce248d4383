// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package log re-exports the node-wide structured logger so that components
// can log without depending on github.com/luxfi/log directly. The proposer
// is the only component that takes a logger.
package log

import "github.com/luxfi/log"

// Logger is the structured logger interface used throughout this module.
type Logger = log.Logger

// NewNoOp returns a logger that discards everything, used by default in
// tests and in components that are not handed an explicit logger.
func NewNoOp() Logger {
	return log.NewNoOpLogger()
}
