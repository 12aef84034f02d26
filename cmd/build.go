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
	"github.com/spf13/cobra"
)

// BuildCmd prepares the padded material fields, and with --all every other input of a run.
var BuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build padded stiffness and density fields from the material image",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			pl  *Pipeline
			all bool
		)
		if pl, err = processInput(cmd); err != nil {
			return
		}
		all, _ = cmd.Flags().GetBool("all")
		if err = pl.BuildFields(); err != nil {
			return
		}
		if err = pl.SaveFields(); err != nil || !all {
			return
		}
		if err = pl.BuildProfiles(); err != nil {
			return
		}
		if err = pl.SaveProfiles(); err != nil {
			return
		}
		if err = pl.BuildSource(); err != nil {
			return
		}
		return pl.SaveSource()
	},
}

// CPMLCmd generates damping profiles for previously built fields.
var CPMLCmd = &cobra.Command{
	Use:   "cpml",
	Short: "Generate the CPML damping profiles for the built fields",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var pl *Pipeline
		if pl, err = processInput(cmd); err != nil {
			return
		}
		if err = pl.LoadFields(); err != nil {
			return
		}
		if err = pl.BuildProfiles(); err != nil {
			return
		}
		return pl.SaveProfiles()
	},
}

// SourceCmd samples the source wavelet at the time step of the built fields.
var SourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Generate the source time series for the built fields",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var pl *Pipeline
		if pl, err = processInput(cmd); err != nil {
			return
		}
		if err = pl.LoadFields(); err != nil {
			return
		}
		if err = pl.BuildSource(); err != nil {
			return
		}
		return pl.SaveSource()
	},
}

func init() {
	for _, c := range []*cobra.Command{BuildCmd, CPMLCmd, SourceCmd} {
		rootCmd.AddCommand(c)
		addInputFlag(c)
	}
	BuildCmd.Flags().BoolP("all", "a", false, "also generate and save the CPML profiles and the source")
}
