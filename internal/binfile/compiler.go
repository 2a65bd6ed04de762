package binfile

import "fmt"

// UnknownCompiler is reported when no toolchain signature matches.
const UnknownCompiler = "Unknown"

// matcher reports whether a compiled toolchain signature occurs in data.
type matcher interface {
	match(data []byte) bool
}

type toolchainSignature struct {
	name string
	expr string
}

// toolchainSignatures are checked in order; the first match wins. Runtimes
// that embed C toolchain strings (Go, Rust) come before the C toolchains.
var toolchainSignatures = []toolchainSignature{
	{"Rust", `rust_panic|rust_begin_unwind`},
	{"Golang", `Go build ID:|golang`},
	{"MinGW/GCC", `GCC: \(GNU\)|__MINGW_IMPORT`},
	{"Delphi", `Borland\\Delphi|FastMM`},
	{"MSVC", `\.CRT\$XC[AUL]`},
	{"Clang/LLVM", `clang version|LLVM`},
}

type compiledSignature struct {
	name string
	m    matcher
}

var compiledSignatures = mustCompileSignatures()

func mustCompileSignatures() []compiledSignature {
	out := make([]compiledSignature, 0, len(toolchainSignatures))
	for _, sig := range toolchainSignatures {
		m, err := compileSignature(sig.expr)
		if err != nil {
			panic(fmt.Sprintf("failed to compile toolchain signature for %s: %v", sig.name, err))
		}
		out = append(out, compiledSignature{name: sig.name, m: m})
	}
	return out
}

// DetectCompiler guesses the toolchain that built data by searching the
// whole file for strings each toolchain leaves behind.
func DetectCompiler(data []byte) string {
	for _, sig := range compiledSignatures {
		if sig.m.match(data) {
			return sig.name
		}
	}
	return UnknownCompiler
}
