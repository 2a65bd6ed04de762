package binfile_test

import (
	"testing"

	"github.com/ossf/binpattern/internal/binfile"
	"github.com/ossf/binpattern/internal/binfile/binfiletest"
)

func TestDescribe(t *testing.T) {
	text := []binfiletest.Section{{Name: ".text", Data: []byte{0x90, 0xc3}}}

	tests := []struct {
		name string
		img  binfiletest.Image
		want binfile.Info
	}{
		{
			name: "x64 console",
			img:  binfiletest.Image{Sections: text},
			want: binfile.Info{Architecture: "x64", Is64Bit: true, Compiler: binfile.UnknownCompiler},
		},
		{
			name: "x86 gui dll",
			img: binfiletest.Image{
				Machine:         binfiletest.MachineI386,
				Is32Bit:         true,
				Characteristics: binfiletest.CharacteristicDLL,
				Subsystem:       binfiletest.SubsystemGUI,
				Sections:        text,
			},
			want: binfile.Info{Architecture: "x86", IsDLL: true, IsGUI: true, Compiler: binfile.UnknownCompiler},
		},
		{
			name: "system driver built with go",
			img: binfiletest.Image{
				Characteristics: binfiletest.CharacteristicSystem,
				Sections:        text,
				Trailer:         []byte("\xff Go build ID: \"abc/def\"\x00"),
			},
			want: binfile.Info{Architecture: "x64", Is64Bit: true, IsSystem: true, Compiler: "Golang"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := binfile.Describe(test.img.Bytes())
			if err != nil {
				t.Fatalf("Describe() error = %v", err)
			}
			if got != test.want {
				t.Errorf("Describe() = %+v; want %+v", got, test.want)
			}
		})
	}
}

func TestDescribe_NotExecutable(t *testing.T) {
	if _, err := binfile.Describe([]byte("MZ")); err == nil {
		t.Error("Describe() error = nil; want an error")
	}
}

func TestDetectCompiler(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"rust", "core::panicking rust_begin_unwind", "Rust"},
		{"go", "runtime.main golang.org/x/sys", "Golang"},
		{"mingw", "GCC: (GNU) 12.2.0", "MinGW/GCC"},
		{"delphi", "FastMM Borland", "Delphi"},
		{"msvc", "\x00.CRT$XCU\x00", "MSVC"},
		{"clang", "clang version 17.0.1", "Clang/LLVM"},
		{"rust before llvm", "LLVM rust_panic", "Rust"},
		{"unknown", "\x90\x90\xc3", binfile.UnknownCompiler},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := binfile.DetectCompiler([]byte(test.data)); got != test.want {
				t.Errorf("DetectCompiler() = %q; want %q", got, test.want)
			}
		})
	}
}
