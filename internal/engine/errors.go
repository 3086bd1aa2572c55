// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package engine

import (
	"github.com/samber/oops"
)

// Construction errors.
var (
	ErrNilWorld      = oops.Errorf("world cannot be nil")
	ErrNilDispatcher = oops.Errorf("dispatcher cannot be nil")
)
