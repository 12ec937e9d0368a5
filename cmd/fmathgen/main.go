// Copyright 2025 go-highway Authors
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

// Command fmathgen is the generation-time tool of the fmath kernels.
//
// Usage:
//
//	fmathgen config --unroll 4 --table-bits 4 --output hwy/contrib/algo --pkg algo
//	fmathgen tables --table-bits 4
//	fmathgen accuracy --samples 1000000
//
// Or via go:generate:
//
//	//go:generate go run ../../../cmd/fmathgen config --unroll 4 --table-bits 4 --output . --pkg algo
//
// config validates the unroll factor against the register budget of both
// kernels and the log table size, then writes zz_fmath_config.go. An invalid
// configuration is rejected before anything is written.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fmathgen",
		Short:         "Generation-time tool for the fmath exp/log kernels",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newConfigCmd(), newTablesCmd(), newAccuracyCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
