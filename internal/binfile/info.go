package binfile

import (
	"fmt"
	"strings"

	"github.com/Binject/debug/pe"
)

const (
	characteristicSystem = 0x1000
	characteristicDLL    = 0x2000

	subsystemWindowsGUI = 2
)

var machineNames = map[uint16]string{
	0x014c: "x86",
	0x0200: "IA64",
	0x8664: "x64",
	0x01c0: "ARM",
	0x01c4: "ARM",
	0xaa64: "ARM64",
}

// Info describes a sample without looking at its code.
type Info struct {
	Architecture string `json:"architecture"`
	Is64Bit      bool   `json:"is_64bit"`
	IsDLL        bool   `json:"is_dll"`
	IsSystem     bool   `json:"is_system"`
	IsGUI        bool   `json:"is_gui"`
	Compiler     string `json:"compiler"`
}

func (i Info) String() string {
	bits := "32-bit"
	if i.Is64Bit {
		bits = "64-bit"
	}
	parts := []string{
		fmt.Sprintf("compiler: %s", i.Compiler),
		fmt.Sprintf("architecture: %s (%s)", i.Architecture, bits),
	}
	if i.IsDLL {
		parts = append(parts, "type: DLL")
	}
	if i.IsSystem {
		parts = append(parts, "system: yes")
	}
	if i.IsGUI {
		parts = append(parts, "gui: yes")
	}
	return strings.Join(parts, ", ")
}

// Describe reads the header fields of a PE image and guesses the compiler
// that produced it.
func Describe(data []byte) (Info, error) {
	f, err := open(data)
	if err != nil {
		return Info{}, err
	}

	info := Info{
		Architecture: "Unknown",
		IsDLL:        f.FileHeader.Characteristics&characteristicDLL != 0,
		IsSystem:     f.FileHeader.Characteristics&characteristicSystem != 0,
		Compiler:     DetectCompiler(data),
	}
	if name, ok := machineNames[f.FileHeader.Machine]; ok {
		info.Architecture = name
	}

	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader64:
		info.Is64Bit = true
		info.IsGUI = oh.Subsystem == subsystemWindowsGUI
	case *pe.OptionalHeader32:
		info.IsGUI = oh.Subsystem == subsystemWindowsGUI
	}

	return info, nil
}
