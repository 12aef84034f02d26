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
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/seisfdtd/InputParameters"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "seisfdtd",
	Short: "Anisotropic elastic wave propagation in 2D with CPML boundaries",
	Long: `seisfdtd models elastic waves through a 2D section described by a material
image and a YAML model file. The model is prepared in stages, each of which
saves its product under the output directory:

  build   material image -> padded stiffness and density fields
  cpml    fields -> absorbing layer damping profiles
  source  fields -> source time series
  run     all of the above -> snapshots, images and receiver traces`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.seisfdtd.yaml)")
	rootCmd.PersistentFlags().IntP("parallel", "p", 0, "goroutines per sweep, 0 uses every CPU")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print progress and diagnostics")
	rootCmd.PersistentFlags().StringP("outDir", "o", "", "output directory, overrides Output.Dir of the model file")
	for _, name := range []string{"parallel", "verbose", "outDir"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".seisfdtd")
	}
	viper.SetEnvPrefix("seisfdtd")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func addInputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("inputFile", "I", "", "YAML model file")
}

// processInput reads the model file named on the command line into a pipeline.
func processInput(cmd *cobra.Command) (pl *Pipeline, err error) {
	var (
		path string
		ip   *InputParameters.InputParameters
	)
	if path, err = cmd.Flags().GetString("inputFile"); err != nil {
		return
	}
	if len(path) == 0 {
		err = fmt.Errorf("must supply a model file (-I, --inputFile), for example:%s", exampleFile)
		return
	}
	if ip, err = InputParameters.ReadFile(path); err != nil {
		return
	}
	verbose := viper.GetBool("verbose")
	if verbose {
		ip.Print()
	}
	pl = NewPipeline(ip, viper.GetString("outDir"), verbose)
	return
}

var exampleFile = `
########################################
Title: "Ice sheet over bedrock"
Dx: 1.
Dz: 1.
Pml: 10
Image: model.png          # one colour per material
Materials:
  - ID: 0
    Name: ice1h
    RGB: "255/255/255"
    Temperature: -10
    Density: 917
  - ID: 1
    Name: granite
    RGB: "0/0/0"
    Density: 2700
Source:
  X: 100
  Z: 2
  Wavelet: ricker         # or gaussian, gaus1
  F0: 250
  Angle: 90               # degrees from +x toward +z
NStep: 2000
Output:
  Dir: output
  SnapshotInterval: 50
  ImageInterval: 200
########################################
`
