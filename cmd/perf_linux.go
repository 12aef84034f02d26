//go:build linux

/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
)

/*
countInstructions runs f under the hardware instruction counter. When the
counter cannot be opened, typically for lack of perf_event permissions, f runs
uncounted and zero is returned.
*/
func countInstructions(f func() error) (instructions uint64, err error) {
	var (
		ran  bool
		ferr error
		pv   *perf.ProfileValue
	)
	pv, err = perf.CPUInstructions(func() error {
		ran = true
		ferr = f()
		return nil
	})
	switch {
	case err != nil && !ran:
		fmt.Printf("instruction counter unavailable: %v\n", err)
		return 0, f()
	case err != nil:
		fmt.Printf("reading the instruction counter: %v\n", err)
		return 0, ferr
	}
	return pv.Value, ferr
}
