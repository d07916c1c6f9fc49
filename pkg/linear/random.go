package linear

// RNG is the randomness source used for genome generation and
// mutation. *math/rand.Rand satisfies it.
type RNG interface {
	Intn(n int) int
}

// RandomInst builds a uniformly random instruction: any opcode below
// Unknown, with all three args drawn from the register range.
func RandomInst(rng RNG) Instruction {
	return NewInst(Opcode(rng.Intn(int(OpUnknown))),
		rng.Intn(NumRegs), rng.Intn(NumRegs), rng.Intn(NumRegs))
}

// RandomizeInst overwrites the instruction at pos with a random one.
func (vm *VM) RandomizeInst(pos int, rng RNG) {
	vm.genome[pos] = RandomInst(rng)
}

// PushRandom appends count random instructions to the genome.
func (vm *VM) PushRandom(rng RNG, count int) {
	for i := 0; i < count; i++ {
		vm.PushInstInst(RandomInst(rng))
	}
}
