// ./cmd/spkeph/info.go
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
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mshafiee/spkeph"
)

var infoCmd = &cobra.Command{
	Use:   "info [kernel...]",
	Short: "Describe kernel files",
	Long: "info prints each kernel's format, coverage and segment directory.\n" +
		"Kernels may be given as arguments or through --kernel / config.",
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().Bool("constants", false, "also print the header constants of legacy DE kernels")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	withConstants, _ := cmd.Flags().GetBool("constants")
	paths := args
	if len(paths) == 0 {
		paths = viper.GetStringSlice("kernels")
	}
	if len(paths) == 0 {
		return fmt.Errorf("no kernels given: pass paths or use --kernel")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	for _, path := range paths {
		k, err := spkeph.LoadKernel(path, viper.GetBool("strict"), logger)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s kernel %q\n", path, k.Format, k.Name)
		fmt.Printf("  coverage: JD %.3f .. %.3f\n", k.StartJD(), k.EndJD())
		if k.Format == spkeph.FormatDE {
			fmt.Printf("  AU: %.3f km, Earth/Moon mass ratio: %.6f\n", k.AU, k.EMRat)
		}
		fmt.Printf("  segments: %d\n", len(k.Segments))
		for _, seg := range k.Segments {
			fmt.Printf("    %-24s rel %-24s type %d, %5d windows\n",
				seg.Target, seg.Center, seg.Type, len(seg.Records))
		}
		if withConstants && len(k.Constants) > 0 {
			names := make([]string, 0, len(k.Constants))
			for name := range k.Constants {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Printf("  constants: %d\n", len(names))
			for _, name := range names {
				fmt.Printf("    %-8s %24.16e\n", name, k.Constants[name])
			}
		}
	}
	return nil
}
