// Package evolve runs synchronous-generation evolutionary searches
// over linear genomes: tournament selection, point mutation, lineage
// tracking and per-generation fitness statistics.
package evolve

import (
	"fmt"
	"strings"

	"github.com/akhildatla/evovm/pkg/cases"
	"github.com/akhildatla/evovm/pkg/linear"
)

// FitnessFunc scores a genome. Higher is better.
type FitnessFunc func(g linear.Genome) (float64, error)

// TableFitness builds a fitness function from a fitness-case table:
// the negated total absolute error of running the genome for steps
// instructions per case, so a perfect program scores 0.
func TableFitness(tbl *cases.Table, steps int) FitnessFunc {
	vm := linear.NewVM()
	return func(g linear.Genome) (float64, error) {
		vm.SetGenome(g)
		total, err := tbl.TotalAbsError(vm, steps)
		if err != nil {
			return 0, err
		}
		return -total, nil
	}
}

// Config holds the driver's knobs.
type Config struct {
	Size           int // organisms per generation
	GenomeLen      int // instructions per seeded genome
	TournamentSize int // organisms drawn per parent selection
	PointMuts      int // point mutations per offspring
}

// DefaultConfig returns a small demo-scale configuration.
func DefaultConfig() Config {
	return Config{Size: 100, GenomeLen: 32, TournamentSize: 4, PointMuts: 1}
}

// Org is one member of the population.
type Org struct {
	Genome  linear.Genome
	Fitness float64

	taxon *Taxon
}

// Taxon returns the organism's taxon in the population's phylogeny.
func (o Org) Taxon() *Taxon { return o.taxon }

// Population is a fixed-size synchronous-generation population of
// linear genomes.
type Population struct {
	cfg   Config
	fit   FitnessFunc
	rng   linear.RNG
	orgs  []Org
	sys   *Systematics
	stats *Stats
	gen   int
}

// NewPopulation seeds a population of random genomes.
func NewPopulation(cfg Config, fit FitnessFunc, rng linear.RNG) *Population {
	if cfg.TournamentSize < 1 {
		cfg.TournamentSize = 1
	}
	p := &Population{
		cfg:   cfg,
		fit:   fit,
		rng:   rng,
		sys:   NewSystematics(),
		stats: NewStats(),
	}
	p.orgs = make([]Org, cfg.Size)
	for i := range p.orgs {
		g := make(linear.Genome, cfg.GenomeLen)
		for k := range g {
			g[k] = linear.RandomInst(rng)
		}
		p.orgs[i] = Org{Genome: g, taxon: p.sys.AddOrg(genomeKey(g), nil)}
	}
	return p
}

// Size returns the number of organisms.
func (p *Population) Size() int { return len(p.orgs) }

// Generation returns the number of completed generations.
func (p *Population) Generation() int { return p.gen }

// Org returns organism i.
func (p *Population) Org(i int) Org { return p.orgs[i] }

// Systematics returns the population's lineage tracker.
func (p *Population) Systematics() *Systematics { return p.sys }

// Stats returns the per-generation statistics collector.
func (p *Population) Stats() *Stats { return p.stats }

// Evaluate scores every organism with the fitness function.
func (p *Population) Evaluate() error {
	for i := range p.orgs {
		f, err := p.fit(p.orgs[i].Genome)
		if err != nil {
			return fmt.Errorf("org %d: %w", i, err)
		}
		p.orgs[i].Fitness = f
	}
	return nil
}

// Best returns the organism with the highest fitness under the most
// recent evaluation.
func (p *Population) Best() Org {
	best := 0
	for i := range p.orgs {
		if p.orgs[i].Fitness > p.orgs[best].Fitness {
			best = i
		}
	}
	return p.orgs[best]
}

// selectParent runs one tournament and returns the winner's index.
func (p *Population) selectParent() int {
	best := p.rng.Intn(len(p.orgs))
	for k := 1; k < p.cfg.TournamentSize; k++ {
		i := p.rng.Intn(len(p.orgs))
		if p.orgs[i].Fitness > p.orgs[best].Fitness {
			best = i
		}
	}
	return best
}

// mutate copies a genome and applies the configured number of point
// mutations.
func (p *Population) mutate(g linear.Genome) linear.Genome {
	child := make(linear.Genome, len(g))
	copy(child, g)
	for m := 0; m < p.cfg.PointMuts; m++ {
		child[p.rng.Intn(len(child))] = linear.RandomInst(p.rng)
	}
	return child
}

// StepGeneration evaluates the population, records statistics and
// replaces every organism with a mutated tournament-selected
// offspring. Offspring join the phylogeny before their parents are
// retired so lineages stay connected.
func (p *Population) StepGeneration() error {
	if err := p.Evaluate(); err != nil {
		return err
	}

	fits := make([]float64, len(p.orgs))
	for i := range p.orgs {
		fits[i] = p.orgs[i].Fitness
	}
	p.stats.Record(p.gen, fits, p.sys.GetNumActive())

	next := make([]Org, len(p.orgs))
	for i := range next {
		parent := p.orgs[p.selectParent()]
		child := p.mutate(parent.Genome)
		next[i] = Org{Genome: child, taxon: p.sys.AddOrg(genomeKey(child), parent.taxon)}
	}
	for i := range p.orgs {
		p.sys.RemoveOrg(p.orgs[i].taxon)
	}

	p.orgs = next
	p.gen++
	p.sys.Update()
	return nil
}

// Run steps the population through generations back to back.
func (p *Population) Run(generations int) error {
	for g := 0; g < generations; g++ {
		if err := p.StepGeneration(); err != nil {
			return err
		}
	}
	return nil
}

// genomeKey renders a genome as a canonical string so identical
// genomes share a taxon.
func genomeKey(g linear.Genome) string {
	var b strings.Builder
	for _, inst := range g {
		fmt.Fprintf(&b, "%d.%d.%d.%d;", inst.Op, inst.Args[0], inst.Args[1], inst.Args[2])
	}
	return b.String()
}
