package cmd

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	healthVacuum  bool
	healthReindex bool
)

// healthCmd groups store maintenance and inspection.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Inspect and maintain the history database",
}

var healthCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify database integrity and index set",
	Long: `Run SQLite's integrity check, report fragmentation, and list any missing
indexes. Nothing is repaired or compacted automatically; use
'sdbh health optimize' for that.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealthCheckCommand()
	},
}

var healthStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Row counts, on-disk size, and index presence",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealthStatsCommand()
	},
}

var healthOptimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Apply maintenance: recreate missing indexes, compact the file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHealthOptimizeCommand(cmd)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	healthCmd.AddCommand(healthCheckCmd)
	healthCmd.AddCommand(healthStatsCmd)
	healthCmd.AddCommand(healthOptimizeCmd)

	healthOptimizeCmd.Flags().BoolVar(&healthVacuum, "vacuum", false, "compact the database file")
	healthOptimizeCmd.Flags().BoolVar(&healthReindex, "reindex", false, "create any missing indexes")
}

func runHealthCheckCommand() error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Check(); err != nil {
		return err
	}
	fmt.Println("integrity: ok")

	frag, err := store.Fragmentation()
	if err != nil {
		return err
	}
	fmt.Printf("fragmentation: %d of %d pages free (%.1f%%)\n",
		frag.FreePages, frag.PageCount, frag.FreeRatio*100)
	if frag.RecommendVacuum {
		fmt.Println("recommendation: run 'sdbh health optimize --vacuum'")
	}

	missing, err := store.MissingIndexes()
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		fmt.Println("indexes: all present")
	} else {
		for _, name := range missing {
			fmt.Println("missing index:", name)
		}
		fmt.Println("recommendation: run 'sdbh health optimize --reindex'")
	}
	return nil
}

func runHealthStatsCommand() error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("entries:      %s\n", humanize.Comma(st.Entries))
	fmt.Printf("fingerprints: %s\n", humanize.Comma(st.Fingerprints))
	fmt.Printf("on disk:      %s\n", humanize.Bytes(uint64(st.FileBytes)))
	names := make([]string, 0, len(st.Indexes))
	for name := range st.Indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		state := "present"
		if !st.Indexes[name] {
			state = "MISSING"
		}
		fmt.Printf("index %-22s %s\n", name+":", state)
	}
	return nil
}

func runHealthOptimizeCommand(cmd *cobra.Command) error {
	if !healthVacuum && !healthReindex {
		return fmt.Errorf("nothing to do: pass --vacuum and/or --reindex")
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if healthReindex {
		if err := store.EnsureIndexes(); err != nil {
			return err
		}
		fmt.Println("indexes: ensured")
	}
	if healthVacuum {
		if err := store.Vacuum(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("vacuum: done")
	}
	return nil
}
