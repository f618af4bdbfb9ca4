package codegen

import "strconv"

// Linux x86-64 system call numbers.
const (
	sysRead  = 0
	sysWrite = 1
	sysExit  = 60
)

const (
	stdin  = "0"
	stdout = "1"
)

var syscallArgRegisters = []string{"rdi", "rsi", "rdx", "r10", "r8", "r9"}

// syscall loads rax and the argument registers in ABI order, then traps.
func (g *Generator) syscall(number int, args ...string) {
	g.instr("mov rax, %d", number)
	for i, arg := range args {
		g.instr("mov %s, %s", syscallArgRegisters[i], arg)
	}
	g.instr("syscall")
}

func (g *Generator) emitWrite(buffer, length string) {
	g.syscall(sysWrite, stdout, buffer, length)
}

func (g *Generator) emitRead(buffer, length string) {
	g.syscall(sysRead, stdin, buffer, length)
}

func (g *Generator) emitExit(code int) {
	g.instr("xor rax, rax")
	g.instr("mov rsp, rbp")
	g.instr("pop rbp")
	g.syscall(sysExit, strconv.Itoa(code))
}
