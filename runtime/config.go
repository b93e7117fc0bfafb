// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"encoding/json"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/hyperaccounts/accounts"
	"github.com/ava-labs/hyperaccounts/system"
	"github.com/ava-labs/hyperaccounts/trace"
)

// DefaultMaxInvokeDepth is how many nested cross-program calls an
// instruction may make.
const DefaultMaxInvokeDepth = 4

type Config struct {
	TraceConfig              trace.Config  `json:"traceConfig"`
	LogLevel                 logging.Level `json:"logLevel"`
	MaxInvokeDepth           int           `json:"maxInvokeDepth"`
	MaxPermittedDataIncrease int           `json:"maxPermittedDataIncrease"` // bytes an account may grow by per instruction
	Rent                     system.Rent   `json:"rent"`
}

func NewDefaultConfig() Config {
	return Config{
		TraceConfig:              trace.Config{Enabled: false},
		LogLevel:                 logging.Info,
		MaxInvokeDepth:           DefaultMaxInvokeDepth,
		MaxPermittedDataIncrease: accounts.MaxPermittedDataIncrease,
		Rent:                     system.DefaultRent(),
	}
}

// NewConfig overlays the JSON in b on [NewDefaultConfig].
func NewConfig(b []byte) (Config, error) {
	c := NewDefaultConfig()
	if len(b) > 0 {
		if err := json.Unmarshal(b, &c); err != nil {
			return Config{}, err
		}
	}
	return c, nil
}
