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
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/seisfdtd/model_problems/Elastic2D"
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the elastic solver, writing snapshots, images and receiver traces",
	Long: `Run the elastic solver. By default every input is built in memory from the
model file; with --fromFiles the fields, profiles and source saved by the
build, cpml and source commands are used instead. An interrupt stops the run
between steps.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			pl *Pipeline
		)
		if pl, err = processInput(cmd); err != nil {
			return
		}
		fromFiles, _ := cmd.Flags().GetBool("fromFiles")
		if err = prepare(pl, fromFiles); err != nil {
			return
		}
		if dir, _ := cmd.Flags().GetString("profile"); dir != "" {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir)).Stop()
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var (
			res      Elastic2D.Result
			parallel = viper.GetInt("parallel")
			solve    = func() (err error) {
				res, err = pl.Run(ctx, parallel)
				return
			}
		)
		if perf, _ := cmd.Flags().GetBool("perf"); perf {
			var instructions uint64
			instructions, err = countInstructions(solve)
			if instructions > 0 && res.Steps > 0 {
				fmt.Printf("%d CPU instructions, %.1f per cell and step\n", instructions,
					float64(instructions)/float64(pl.Grid.Size()*res.Steps))
			}
		} else {
			err = solve()
		}
		Summary(res)
		return
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	addInputFlag(RunCmd)
	RunCmd.Flags().Bool("fromFiles", false, "load fields, profiles and source saved under the output directory")
	RunCmd.Flags().String("profile", "", "write a CPU profile into this directory")
	RunCmd.Flags().Bool("perf", false, "count CPU instructions spent in the time loop (Linux only)")
}

func prepare(pl *Pipeline, fromFiles bool) (err error) {
	if fromFiles {
		if err = pl.LoadFields(); err != nil {
			return
		}
		if err = pl.LoadProfiles(); err != nil {
			return
		}
		return pl.LoadSource()
	}
	if err = pl.BuildFields(); err != nil {
		return
	}
	if err = pl.BuildProfiles(); err != nil {
		return
	}
	return pl.BuildSource()
}

// Summary charts the peak velocity per step.
func Summary(res Elastic2D.Result) {
	if len(res.MaxVelocity) == 0 {
		return
	}
	caption := fmt.Sprintf("max |v| (m/s) over %d steps, DT = %.4e s", res.Steps, res.DT)
	fmt.Println(asciigraph.Plot(res.MaxVelocity,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
}
