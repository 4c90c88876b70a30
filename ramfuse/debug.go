// Copyright 2015 Google Inc. All Rights Reserved.
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

package ramfuse

import (
	"io"

	"github.com/rs/zerolog"
)

// Return a logger suitable for Config.Logger that writes debug messages to w,
// or discards everything if !enabled.
func NewDebugLogger(w io.Writer, enabled bool) zerolog.Logger {
	if !enabled {
		return zerolog.Nop()
	}

	return zerolog.New(w).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Str("component", "ramfuse").
		Logger()
}
