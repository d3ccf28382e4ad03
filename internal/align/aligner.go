package align

import (
	"github.com/retroenv/branchalign/internal/instruction"
	"github.com/retroenv/retrogolib/log"
)

// Decision contains the alignment decision for a single instruction.
type Decision struct {
	Sensitive bool // instruction benefits from special alignment on the CPU
	MaxNoOps  int  // number of NOPs that can be inserted before the instruction
	Vetoed    bool // opcode is never padded
	Verdicts  []OperandVerdict
}

// Aligner applies the alignment heuristics for a specific CPU.
// It has no mutable state and can be used concurrently.
type Aligner struct {
	cpu    string
	logger *log.Logger
}

// New returns a new aligner for the given CPU name.
func New(logger *log.Logger, cpu string) *Aligner {
	return &Aligner{
		cpu:    cpu,
		logger: logger,
	}
}

// CPU returns the CPU name that the aligner was created for.
func (a *Aligner) CPU() string {
	return a.cpu
}

// Supported returns whether the CPU of the aligner has alignment sensitive instructions.
func (a *Aligner) Supported() bool {
	return a.cpu == SupportedCPU
}

// Analyze returns the alignment decision for the instruction.
func (a *Aligner) Analyze(inst instruction.Instruction) Decision {
	op := inst.Opcode()
	decision := Decision{
		Sensitive: NeedsSpecialAlignment(a.cpu, op),
		MaxNoOps:  LoopIndexForNoOps(inst),
		Vetoed:    Vetoed(op),
		Verdicts:  CheckOperands(inst),
	}

	if decision.MaxNoOps == 0 && decision.Sensitive {
		a.logDisqualification(inst, decision)
	}
	return decision
}

func (a *Aligner) logDisqualification(inst instruction.Instruction, decision Decision) {
	if decision.Vetoed {
		a.logger.Debug("Opcode is never padded",
			log.String("instruction", inst.String()))
		return
	}

	for _, verdict := range decision.Verdicts {
		if verdict.Safe {
			continue
		}
		a.logger.Debug("Operand prevents padding",
			log.String("instruction", inst.String()),
			log.Int("operand", verdict.Index),
			log.String("kind", verdict.Kind.String()),
			log.String("reason", verdict.Reason))
		return
	}
}
