package sysinfo

import (
	"golang.org/x/sys/cpu"
)

// Features lists the SIMD extensions relevant to dense kernels that the CPU
// reports.
func Features() []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}

	add(cpu.X86.HasSSE41 || cpu.X86.HasSSE42, "SSE4")
	add(cpu.X86.HasAVX, "AVX")
	add(cpu.X86.HasAVX2, "AVX2")
	add(cpu.X86.HasFMA, "FMA")
	add(cpu.X86.HasAVX512F, "AVX512F")
	add(cpu.X86.HasAVX512DQ, "AVX512DQ")
	add(cpu.X86.HasAVX512BW, "AVX512BW")
	add(cpu.X86.HasAVX512VL, "AVX512VL")
	add(cpu.ARM64.HasASIMD, "ASIMD")
	add(cpu.ARM64.HasSVE, "SVE")

	return out
}
