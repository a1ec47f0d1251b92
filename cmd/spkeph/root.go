// ./cmd/spkeph/root.go
package main

/*
Command spkeph inspects and queries binary planetary ephemeris kernels.

This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.
*/

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "spkeph",
	Short: "Planetary ephemeris kernel query tool",
	Long: "spkeph evaluates positions and velocities of solar-system bodies\n" +
		"from binary ephemeris kernels (NAIF SPK or legacy JPL DE files).",
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .spkeph.yaml)")
	rootCmd.PersistentFlags().StringSlice("kernel", nil, "kernel file to load (repeatable; later kernels take precedence)")
	rootCmd.PersistentFlags().Bool("strict", false, "reject malformed-but-plausible kernel records instead of skipping them")
	rootCmd.PersistentFlags().Int("cache", 0, "hop cache capacity in entries (0 = default)")
	_ = viper.BindPFlag("kernels", rootCmd.PersistentFlags().Lookup("kernel"))
	_ = viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
	_ = viper.BindPFlag("cache", rootCmd.PersistentFlags().Lookup("cache"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".spkeph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("SPKEPH")
	viper.AutomaticEnv()

	// It's fine if no config file is found; flags and env suffice.
	_ = viper.ReadInConfig()
}
