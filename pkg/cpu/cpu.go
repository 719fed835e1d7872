// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package cpu

import "github.com/mano-cs/manoemu/pkg/word"

// Reset returns every register and flag to its power-on value: memory is
// untouched (the host calls memory.Reset separately), FGO starts raised
// because the output device is assumed ready, and S starts false so the
// CPU idles until SetPC starts it.
func (c *CPU) Reset() {
	c.AC, c.DR, c.IR, c.TR = 0, 0, 0, 0
	c.AR, c.PC = 0, 0
	c.INPR, c.OUTR = 0, 0
	c.SC = 0
	c.I = false
	c.E = false
	c.S = false
	c.IEN = false
	c.FGI = false
	c.FGO = true
	c.R = false
	c.decoded = decoded{}
}

// SetPC loads the program counter and starts the run flag.
func (c *CPU) SetPC(addr uint16) {
	c.PC = addr & word.Mask12
	c.S = true
}

// SetInput latches ch into INPR and raises FGI, clearing any pending
// WaitInput condition: the next Step() call retries INP from SC=3 and
// this time succeeds.
func (c *CPU) SetInput(ch uint8) {
	c.INPR = ch
	c.FGI = true
}

// ClearInput lowers FGI without touching INPR, modeling a host "clear
// input" control that simply withdraws the pending character.
func (c *CPU) ClearInput() {
	c.FGI = false
}

func (c *CPU) snapshot(state State, msg string) StepResult {
	return StepResult{
		State:   state,
		Message: msg,
		SC:      c.SC,
		PC:      c.PC,
		AR:      c.AR,
		AC:      c.AC,
		DR:      c.DR,
		IR:      c.IR,
		TR:      c.TR,
		INPR:    c.INPR,
		OUTR:    c.OUTR,
		I:       c.I,
		E:       c.E,
		S:       c.S,
		IEN:     c.IEN,
		FGI:     c.FGI,
		FGO:     c.FGO,
		R:       c.R,
	}
}

// Step advances the CPU by exactly one micro-operation and reports what
// happened. A halted CPU (S=false) returns Halt without mutating
// anything; an INP blocked on FGI=0 leaves SC at 3 so the same
// instruction retries on the next call.
func (c *CPU) Step() StepResult {
	if !c.S {
		return c.snapshot(Halt, "halted")
	}

	switch c.SC {
	case 0:
		if c.R {
			return c.interruptCycle()
		}
		c.AR = c.PC
		c.SC = 1
		return c.snapshot(Run, "T0: AR <- PC")

	case 1:
		c.IR = c.mem.Read(c.AR)
		c.PC = word.Inc12(c.PC)
		c.SC = 2
		return c.snapshot(Run, "T1: IR <- M[AR]; PC <- PC+1")

	case 2:
		return c.execT2()

	case 3:
		return c.execT3()

	case 4:
		return c.execMRI4()

	case 5:
		return c.execMRI5()

	case 6:
		return c.execMRI6()

	default:
		if c.Warnf != nil {
			c.Warnf("cpu: invalid sequence counter %d; resetting to T0", c.SC)
		}
		c.SC = 0
		return c.snapshot(Run, "invalid sequence counter; reset to T0")
	}
}

// execT2 decodes IR into the tagged variant carried through the rest of
// the instruction cycle, per the design note in the specification: the
// decode happens once here rather than being re-derived at every phase.
func (c *CPU) execT2() StepResult {
	opcode := uint8((c.IR >> 12) & 0x7)
	c.I = c.IR&0x8000 != 0
	c.AR = c.IR & word.Mask12

	if opcode == 7 {
		if c.I {
			c.decoded = decoded{class: classIOI, mask: c.AR}
		} else {
			c.decoded = decoded{class: classRRI, mask: c.AR}
		}
	} else {
		c.decoded = decoded{class: classMRI, opcode: opcode}
	}

	c.SC = 3
	return c.snapshot(Run, "T2: AR <- IR[0..11]; I <- IR[15]; decode opcode")
}

func (c *CPU) execT3() StepResult {
	switch c.decoded.class {
	case classRRI:
		msg := c.execRRI(c.decoded.mask)
		c.endInstruction()
		if !c.S {
			return c.snapshot(Halt, msg)
		}
		return c.snapshot(Run, msg)

	case classIOI:
		msg, wait := c.execIOI(c.decoded.mask)
		if wait {
			return c.snapshot(WaitInput, msg)
		}
		c.endInstruction()
		return c.snapshot(Run, msg)

	default: // classMRI
		if c.I {
			c.AR = c.mem.Read(c.AR) & word.Mask12
		}
		c.SC = 4
		return c.snapshot(Run, "T3: indirect fetch or direct no-op")
	}
}

func (c *CPU) execMRI4() StepResult {
	switch c.decoded.opcode {
	case OpAND, OpADD, OpLDA:
		c.DR = c.mem.Read(c.AR)
		c.SC = 5
		return c.snapshot(Run, "T4: DR <- M[AR]")

	case OpSTA:
		c.mem.Write(c.AR, c.AC)
		c.endInstruction()
		return c.snapshot(Run, "T4: M[AR] <- AC")

	case OpBUN:
		c.PC = c.AR
		c.endInstruction()
		return c.snapshot(Run, "T4: PC <- AR")

	case OpBSA:
		c.mem.Write(c.AR, c.PC)
		c.AR = word.Inc12(c.AR)
		c.SC = 5
		return c.snapshot(Run, "T4: M[AR] <- PC; AR <- AR+1")

	case OpISZ:
		c.DR = c.mem.Read(c.AR)
		c.SC = 5
		return c.snapshot(Run, "T4: DR <- M[AR]")

	default:
		c.SC = 0
		return c.snapshot(Run, "invalid MRI opcode at T4; reset to T0")
	}
}

func (c *CPU) execMRI5() StepResult {
	switch c.decoded.opcode {
	case OpAND:
		c.AC = word.And16(c.AC, c.DR)
		c.endInstruction()
		return c.snapshot(Run, "T5: AC <- AC & DR")

	case OpADD:
		sum, carry := word.Add16(c.AC, c.DR)
		c.AC = sum
		c.E = carry
		c.endInstruction()
		return c.snapshot(Run, "T5: AC,E <- AC+DR")

	case OpLDA:
		c.AC = c.DR
		c.endInstruction()
		return c.snapshot(Run, "T5: AC <- DR")

	case OpBSA:
		c.PC = c.AR
		c.endInstruction()
		return c.snapshot(Run, "T5: PC <- AR")

	case OpISZ:
		c.DR = word.Inc16(c.DR)
		c.mem.Write(c.AR, c.DR)
		c.SC = 6
		return c.snapshot(Run, "T5: DR <- DR+1; M[AR] <- DR")

	default:
		c.SC = 0
		return c.snapshot(Run, "invalid MRI opcode at T5; reset to T0")
	}
}

func (c *CPU) execMRI6() StepResult {
	if c.decoded.opcode != OpISZ {
		c.SC = 0
		return c.snapshot(Run, "invalid MRI opcode at T6; reset to T0")
	}

	if c.DR == 0 {
		c.PC = word.Inc12(c.PC)
	}
	c.endInstruction()
	return c.snapshot(Run, "T6: skip next instruction if DR=0")
}

// endInstruction returns SC to 0 and latches the pending-interrupt
// request, evaluated exactly at this instruction boundary. The actual
// vectoring happens at the following T0.
func (c *CPU) endInstruction() {
	c.SC = 0
	c.R = c.IEN && (c.FGI || c.FGO)
}

// execRRI applies every set register-reference bit in the fixed order
// the specification lists, honoring all of them. The returned message
// names whichever operation applied last, matching the combinational
// hardware's "last write wins" reporting for multi-bit encodings.
func (c *CPU) execRRI(mask uint16) string {
	msg := "RRI: no operation bits set"

	if mask&MaskCLA != 0 {
		c.AC = 0
		msg = "CLA: AC <- 0"
	}
	if mask&MaskCLE != 0 {
		c.E = false
		msg = "CLE: E <- 0"
	}
	if mask&MaskCMA != 0 {
		c.AC = word.Not16(c.AC)
		msg = "CMA: AC <- ~AC"
	}
	if mask&MaskCME != 0 {
		c.E = !c.E
		msg = "CME: E <- ~E"
	}
	if mask&MaskCIR != 0 {
		carryOut := c.AC&0x1 != 0
		rotated := c.AC >> 1
		if c.E {
			rotated |= 0x8000
		}
		c.AC = rotated
		c.E = carryOut
		msg = "CIR: rotate AC right through E"
	}
	if mask&MaskCIL != 0 {
		carryOut := word.SignBit(c.AC)
		rotated := (c.AC << 1) & word.Mask16
		if c.E {
			rotated |= 0x1
		}
		c.AC = rotated
		c.E = carryOut
		msg = "CIL: rotate AC left through E"
	}
	if mask&MaskINC != 0 {
		c.AC = word.Inc16(c.AC)
		msg = "INC: AC <- AC+1"
	}
	if mask&MaskSPA != 0 {
		if !word.SignBit(c.AC) && c.AC != 0 {
			c.PC = word.Inc12(c.PC)
		}
		msg = "SPA: skip if AC strictly positive"
	}
	if mask&MaskSNA != 0 {
		if word.SignBit(c.AC) {
			c.PC = word.Inc12(c.PC)
		}
		msg = "SNA: skip if AC negative"
	}
	if mask&MaskSZA != 0 {
		if c.AC == 0 {
			c.PC = word.Inc12(c.PC)
		}
		msg = "SZA: skip if AC zero"
	}
	if mask&MaskSZE != 0 {
		if !c.E {
			c.PC = word.Inc12(c.PC)
		}
		msg = "SZE: skip if E zero"
	}
	if mask&MaskHLT != 0 {
		c.S = false
		msg = "HLT: S <- false"
	}

	return msg
}

// execIOI applies every set input/output bit in the fixed order the
// specification lists. If INP cannot proceed (FGI=0), it returns
// wait=true immediately without looking at any other bit in mask; the
// instruction is still "in flight" at T3 and SC is left there by the
// caller.
func (c *CPU) execIOI(mask uint16) (msg string, wait bool) {
	msg = "IOI: no operation bits set"

	if mask&MaskINP != 0 {
		if c.FGI {
			c.AC = (c.AC & 0xFF00) | uint16(c.INPR)
			c.FGI = false
			msg = "INP: AC[0..7] <- INPR"
		} else {
			if c.OnInputRequired != nil {
				c.OnInputRequired()
			}
			return "INP: waiting on FGI", true
		}
	}
	if mask&MaskOUT != 0 {
		c.OUTR = uint8(c.AC & 0xFF)
		c.FGO = false
		if c.OnOutput != nil {
			c.OnOutput(c.OUTR)
		}
		msg = "OUT: OUTR <- AC[0..7]"
	}
	if mask&MaskSKI != 0 {
		if c.FGI {
			c.PC = word.Inc12(c.PC)
		}
		msg = "SKI: skip if FGI set"
	}
	if mask&MaskSKO != 0 {
		if c.FGO {
			c.PC = word.Inc12(c.PC)
		}
		msg = "SKO: skip if FGO set"
	}
	if mask&MaskION != 0 {
		c.IEN = true
		msg = "ION: IEN <- 1"
	}
	if mask&MaskIOF != 0 {
		c.IEN = false
		msg = "IOF: IEN <- 0"
	}

	return msg, false
}

// interruptCycle runs the fixed save-and-vector sequence as a single
// Step() call: TR <- PC, M[0] <- TR, PC <- 1, IEN and R cleared.
func (c *CPU) interruptCycle() StepResult {
	c.TR = c.PC
	c.AR = SaveVector
	c.mem.Write(SaveVector, c.TR)
	c.PC = InterruptVector
	c.IEN = false
	c.R = false
	c.SC = 0
	return c.snapshot(Run, "interrupt: M[0] <- PC; PC <- 1; IEN,R <- 0")
}
