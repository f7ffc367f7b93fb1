package scanner

import "fmt"

// RecordType is the combined 16-bit record code from a record header.
// The high byte identifies the record's semantic kind, the low byte the
// payload's primitive encoding (see DataFormat).
type RecordType uint16

// Record codes. These values are stream-format constants.
const (
	TypeHeader       RecordType = 0x0002
	TypeBgnLib       RecordType = 0x0102
	TypeLibName      RecordType = 0x0206
	TypeUnits        RecordType = 0x0305
	TypeEndLib       RecordType = 0x0400
	TypeBgnStr       RecordType = 0x0502
	TypeStrName      RecordType = 0x0606
	TypeEndStr       RecordType = 0x0700
	TypeBoundary     RecordType = 0x0800
	TypePath         RecordType = 0x0900
	TypeSRef         RecordType = 0x0a00
	TypeARef         RecordType = 0x0b00
	TypeText         RecordType = 0x0c00
	TypeLayer        RecordType = 0x0d02
	TypeDatatype     RecordType = 0x0e02
	TypeWidth        RecordType = 0x0f03
	TypeXY           RecordType = 0x1003
	TypeEndEl        RecordType = 0x1100
	TypeSName        RecordType = 0x1206
	TypeColRow       RecordType = 0x1302
	TypeNode         RecordType = 0x1500
	TypeTextType     RecordType = 0x1602
	TypePresentation RecordType = 0x1701
	TypeString       RecordType = 0x1906
	TypeSTrans       RecordType = 0x1a01
	TypeMag          RecordType = 0x1b05
	TypeAngle        RecordType = 0x1c05
	TypePathType     RecordType = 0x2102
	TypeElFlags      RecordType = 0x2601
	TypeNodeType     RecordType = 0x2a02
	TypePropAttr     RecordType = 0x2b02
	TypePropValue    RecordType = 0x2c06
	TypeBox          RecordType = 0x2d00
	TypeBoxType      RecordType = 0x2e02
	TypePlex         RecordType = 0x2f03
	TypeBgnExtn      RecordType = 0x3003
	TypeEndExtn      RecordType = 0x3103
)

// DataFormat is the payload primitive encoding carried in the low byte
// of the record code.
type DataFormat uint8

const (
	FormatNone    DataFormat = 0 // no payload
	FormatBits    DataFormat = 1 // bit-flag word
	FormatInt16   DataFormat = 2 // array of 2-byte signed integers
	FormatInt32   DataFormat = 3 // array of 4-byte signed integers
	FormatReal4   DataFormat = 4 // array of 4-byte excess-64 reals
	FormatReal8   DataFormat = 5 // array of 8-byte excess-64 reals
	FormatASCII   DataFormat = 6 // ASCII string, NUL-padded to even length
	formatInvalid DataFormat = 7
)

// Kind returns the semantic-kind byte of the record code.
func (t RecordType) Kind() uint8 { return uint8(t >> 8) }

// Format returns the payload encoding byte of the record code.
func (t RecordType) Format() DataFormat { return DataFormat(t & 0xff) }

func (t RecordType) String() string {
	switch t {
	case TypeHeader:
		return "HEADER"
	case TypeBgnLib:
		return "BGNLIB"
	case TypeLibName:
		return "LIBNAME"
	case TypeUnits:
		return "UNITS"
	case TypeEndLib:
		return "ENDLIB"
	case TypeBgnStr:
		return "BGNSTR"
	case TypeStrName:
		return "STRNAME"
	case TypeEndStr:
		return "ENDSTR"
	case TypeBoundary:
		return "BOUNDARY"
	case TypePath:
		return "PATH"
	case TypeSRef:
		return "SREF"
	case TypeARef:
		return "AREF"
	case TypeText:
		return "TEXT"
	case TypeLayer:
		return "LAYER"
	case TypeDatatype:
		return "DATATYPE"
	case TypeWidth:
		return "WIDTH"
	case TypeXY:
		return "XY"
	case TypeEndEl:
		return "ENDEL"
	case TypeSName:
		return "SNAME"
	case TypeColRow:
		return "COLROW"
	case TypeNode:
		return "NODE"
	case TypeTextType:
		return "TEXTTYPE"
	case TypePresentation:
		return "PRESENTATION"
	case TypeString:
		return "STRING"
	case TypeSTrans:
		return "STRANS"
	case TypeMag:
		return "MAG"
	case TypeAngle:
		return "ANGLE"
	case TypePathType:
		return "PATHTYPE"
	case TypeElFlags:
		return "ELFLAGS"
	case TypeNodeType:
		return "NODETYPE"
	case TypePropAttr:
		return "PROPATTR"
	case TypePropValue:
		return "PROPVALUE"
	case TypeBox:
		return "BOX"
	case TypeBoxType:
		return "BOXTYPE"
	case TypePlex:
		return "PLEX"
	case TypeBgnExtn:
		return "BGNEXTN"
	case TypeEndExtn:
		return "ENDEXTN"
	default:
		return fmt.Sprintf("0x%04x", uint16(t))
	}
}

// Record is one length-prefixed unit of the stream: its type code, its
// payload bytes (total length minus the 4-byte header), and the byte
// offset of the header within the buffer.
type Record struct {
	Type RecordType
	Data []byte
	Pos  int64
}

// IsElementOpener reports whether the record starts an element block.
func (r Record) IsElementOpener() bool {
	switch r.Type {
	case TypeBoundary, TypePath, TypeSRef, TypeARef, TypeText, TypeBox, TypeNode:
		return true
	}
	return false
}

// Int16s decodes the payload as big-endian signed 16-bit values.
func (r Record) Int16s() []int16 {
	out := make([]int16, 0, len(r.Data)/2)
	for i := 0; i+1 < len(r.Data); i += 2 {
		out = append(out, int16(uint16(r.Data[i])<<8|uint16(r.Data[i+1])))
	}
	return out
}

// Int32s decodes the payload as big-endian signed 32-bit values.
func (r Record) Int32s() []int32 {
	out := make([]int32, 0, len(r.Data)/4)
	for i := 0; i+3 < len(r.Data); i += 4 {
		v := uint32(r.Data[i])<<24 | uint32(r.Data[i+1])<<16 | uint32(r.Data[i+2])<<8 | uint32(r.Data[i+3])
		out = append(out, int32(v))
	}
	return out
}

// Uint16 decodes the first two payload bytes as a big-endian word.
func (r Record) Uint16() (uint16, bool) {
	if len(r.Data) < 2 {
		return 0, false
	}
	return uint16(r.Data[0])<<8 | uint16(r.Data[1]), true
}

// Real8s decodes the payload as consecutive excess-64 8-byte reals.
func (r Record) Real8s() []float64 {
	out := make([]float64, 0, len(r.Data)/8)
	for i := 0; i+7 < len(r.Data); i += 8 {
		var b [8]byte
		copy(b[:], r.Data[i:i+8])
		out = append(out, DecodeReal8(b))
	}
	return out
}

// ASCII decodes the payload as an ASCII string with trailing NUL
// padding stripped.
func (r Record) ASCII() string {
	end := len(r.Data)
	for end > 0 && r.Data[end-1] == 0 {
		end--
	}
	return string(r.Data[:end])
}
