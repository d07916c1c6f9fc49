package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/akhildatla/evovm/pkg/cases"
	"github.com/akhildatla/evovm/pkg/evolve"
	"github.com/akhildatla/evovm/pkg/linear"
)

var (
	evolveGens       int
	evolveSize       int
	evolveGenomeLen  int
	evolveTournament int
	evolveMuts       int
	evolveSteps      int
	evolveSeed       int64
)

// evolveCmd runs tournament evolution against a fitness-case table.
var evolveCmd = &cobra.Command{
	Use:   "evolve <cases.csv|json|parquet>",
	Short: "Evolve programs against a fitness-case table",
	Long: `Evolve loads a fitness-case table, seeds a random population and
runs tournament selection with point mutation, printing a fitness
sparkline and the best genome found.

Table columns named x<k> feed input slot k and y<k> give the expected
value of output slot k.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := loadTable(args[0])
		if err != nil {
			return err
		}

		cfg := evolve.Config{
			Size:           evolveSize,
			GenomeLen:      evolveGenomeLen,
			TournamentSize: evolveTournament,
			PointMuts:      evolveMuts,
		}
		rng := rand.New(rand.NewSource(evolveSeed))
		pop := evolve.NewPopulation(cfg, evolve.TableFitness(tbl, evolveSteps), rng)

		if err := pop.Run(evolveGens); err != nil {
			return err
		}

		history := pop.Stats().BestHistory()
		fmt.Println(asciigraph.Plot(history,
			asciigraph.Height(10),
			asciigraph.Caption("best fitness per generation")))
		fmt.Println()

		best := pop.Best()
		fmt.Printf("best fitness: %v after %d generations\n",
			best.Fitness, pop.Generation())

		vm := linear.NewVM()
		vm.SetGenome(best.Genome)
		return vm.PrintGenome(os.Stdout)
	},
}

func loadTable(path string) (*cases.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return cases.LoadJSON(path)
	case ".parquet":
		return cases.LoadParquet(path)
	default:
		return cases.LoadCSV(path)
	}
}

func init() {
	rootCmd.AddCommand(evolveCmd)

	evolveCmd.Flags().IntVarP(&evolveGens, "generations", "g", 50,
		"Number of generations to run")
	evolveCmd.Flags().IntVarP(&evolveSize, "size", "p", 100,
		"Population size")
	evolveCmd.Flags().IntVarP(&evolveGenomeLen, "length", "l", 32,
		"Genome length of seeded organisms")
	evolveCmd.Flags().IntVarP(&evolveTournament, "tournament", "t", 4,
		"Tournament size for parent selection")
	evolveCmd.Flags().IntVarP(&evolveMuts, "mutations", "m", 1,
		"Point mutations per offspring")
	evolveCmd.Flags().IntVarP(&evolveSteps, "steps", "n", 200,
		"Instruction steps per fitness case")
	evolveCmd.Flags().Int64VarP(&evolveSeed, "seed", "s", 1,
		"Random number seed")
}
