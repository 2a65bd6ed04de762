// Package binfiletest builds small PE images in memory for tests.
package binfiletest

import (
	"bytes"
	"encoding/binary"
)

const (
	MachineI386  uint16 = 0x014c
	MachineAMD64 uint16 = 0x8664

	CharacteristicExecutable uint16 = 0x0002
	CharacteristicSystem     uint16 = 0x1000
	CharacteristicDLL        uint16 = 0x2000

	SubsystemGUI     uint16 = 2
	SubsystemConsole uint16 = 3

	dosHeaderSize     = 0x40
	fileHeaderSize    = 20
	sectionHeaderSize = 40
	numDataDirs       = 16
)

// Section is one section of the generated image.
type Section struct {
	Name string
	Data []byte
}

// Image describes a PE image to generate.
type Image struct {
	Machine         uint16
	Is32Bit         bool
	Characteristics uint16
	Subsystem       uint16
	Sections        []Section

	// Trailer is appended after all section data.
	Trailer []byte
}

type fileHeader struct {
	Machine              uint16
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      uint16
}

type dataDirectory struct {
	VirtualAddress uint32
	Size           uint32
}

type optionalHeader32 struct {
	Magic                       uint16
	MajorLinkerVersion          uint8
	MinorLinkerVersion          uint8
	SizeOfCode                  uint32
	SizeOfInitializedData       uint32
	SizeOfUninitializedData     uint32
	AddressOfEntryPoint         uint32
	BaseOfCode                  uint32
	BaseOfData                  uint32
	ImageBase                   uint32
	SectionAlignment            uint32
	FileAlignment               uint32
	MajorOperatingSystemVersion uint16
	MinorOperatingSystemVersion uint16
	MajorImageVersion           uint16
	MinorImageVersion           uint16
	MajorSubsystemVersion       uint16
	MinorSubsystemVersion       uint16
	Win32VersionValue           uint32
	SizeOfImage                 uint32
	SizeOfHeaders               uint32
	CheckSum                    uint32
	Subsystem                   uint16
	DllCharacteristics          uint16
	SizeOfStackReserve          uint32
	SizeOfStackCommit           uint32
	SizeOfHeapReserve           uint32
	SizeOfHeapCommit            uint32
	LoaderFlags                 uint32
	NumberOfRvaAndSizes         uint32
	DataDirectory               [numDataDirs]dataDirectory
}

type optionalHeader64 struct {
	Magic                       uint16
	MajorLinkerVersion          uint8
	MinorLinkerVersion          uint8
	SizeOfCode                  uint32
	SizeOfInitializedData       uint32
	SizeOfUninitializedData     uint32
	AddressOfEntryPoint         uint32
	BaseOfCode                  uint32
	ImageBase                   uint64
	SectionAlignment            uint32
	FileAlignment               uint32
	MajorOperatingSystemVersion uint16
	MinorOperatingSystemVersion uint16
	MajorImageVersion           uint16
	MinorImageVersion           uint16
	MajorSubsystemVersion       uint16
	MinorSubsystemVersion       uint16
	Win32VersionValue           uint32
	SizeOfImage                 uint32
	SizeOfHeaders               uint32
	CheckSum                    uint32
	Subsystem                   uint16
	DllCharacteristics          uint16
	SizeOfStackReserve          uint64
	SizeOfStackCommit           uint64
	SizeOfHeapReserve           uint64
	SizeOfHeapCommit            uint64
	LoaderFlags                 uint32
	NumberOfRvaAndSizes         uint32
	DataDirectory               [numDataDirs]dataDirectory
}

type sectionHeader struct {
	Name                 [8]byte
	VirtualSize          uint32
	VirtualAddress       uint32
	SizeOfRawData        uint32
	PointerToRawData     uint32
	PointerToRelocations uint32
	PointerToLineNumbers uint32
	NumberOfRelocations  uint16
	NumberOfLineNumbers  uint16
	Characteristics      uint32
}

// Bytes renders the image.
func (img Image) Bytes() []byte {
	machine := img.Machine
	if machine == 0 {
		machine = MachineAMD64
	}
	subsystem := img.Subsystem
	if subsystem == 0 {
		subsystem = SubsystemConsole
	}

	var opt any
	optSize := binary.Size(optionalHeader64{})
	if img.Is32Bit {
		optSize = binary.Size(optionalHeader32{})
	}
	headersEnd := dosHeaderSize + 4 + fileHeaderSize + optSize + sectionHeaderSize*len(img.Sections)

	var headers []sectionHeader
	offset := headersEnd
	for i, s := range img.Sections {
		var sh sectionHeader
		copy(sh.Name[:], s.Name)
		sh.VirtualSize = uint32(len(s.Data))
		sh.VirtualAddress = uint32(0x1000 * (i + 1))
		sh.SizeOfRawData = uint32(len(s.Data))
		sh.PointerToRawData = uint32(offset)
		headers = append(headers, sh)
		offset += len(s.Data)
	}

	if img.Is32Bit {
		opt = &optionalHeader32{
			Magic:               0x10b,
			ImageBase:           0x400000,
			SectionAlignment:    0x1000,
			FileAlignment:       0x200,
			SizeOfHeaders:       uint32(headersEnd),
			Subsystem:           subsystem,
			NumberOfRvaAndSizes: numDataDirs,
		}
	} else {
		opt = &optionalHeader64{
			Magic:               0x20b,
			ImageBase:           0x140000000,
			SectionAlignment:    0x1000,
			FileAlignment:       0x200,
			SizeOfHeaders:       uint32(headersEnd),
			Subsystem:           subsystem,
			NumberOfRvaAndSizes: numDataDirs,
		}
	}

	var buf bytes.Buffer
	dos := make([]byte, dosHeaderSize)
	copy(dos, "MZ")
	binary.LittleEndian.PutUint32(dos[0x3c:], dosHeaderSize)
	buf.Write(dos)
	buf.WriteString("PE\x00\x00")

	mustWrite(&buf, fileHeader{
		Machine:              machine,
		NumberOfSections:     uint16(len(img.Sections)),
		SizeOfOptionalHeader: uint16(optSize),
		Characteristics:      img.Characteristics | CharacteristicExecutable,
	})
	mustWrite(&buf, opt)
	for _, sh := range headers {
		mustWrite(&buf, sh)
	}
	for _, s := range img.Sections {
		buf.Write(s.Data)
	}
	buf.Write(img.Trailer)
	return buf.Bytes()
}

func mustWrite(buf *bytes.Buffer, v any) {
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		panic(err)
	}
}

// WithCode returns a 64-bit console image whose only code section holds code,
// followed by a data section.
func WithCode(code []byte) []byte {
	return Image{
		Sections: []Section{
			{Name: ".text", Data: code},
			{Name: ".data", Data: []byte("binfiletest data section")},
		},
	}.Bytes()
}
