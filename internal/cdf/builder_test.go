package cdf

import (
	"bytes"
	"encoding/binary"
	"math"
)

// testVar describes one zVariable to place into a synthetic file.
type testVar struct {
	name     string
	dataType int32
	numElems int32
	dims     []int32
	varys    []int32
	recVary  bool
	records  int32
	data     []byte // raw record payload in the file's data encoding
}

// buildCDF assembles a minimal uncompressed CDF v3 byte image: magic, CDR,
// GDR and one zVDR/VXR/VVR triple per variable.
func buildCDF(encoding int32, vars []testVar) []byte {
	const (
		cdrSize = 312
		gdrSize = 84
		vxrSize = 44
	)
	zvdrSize := func(v testVar) int64 {
		return 344 + 8*int64(len(v.dims))
	}

	// First pass: lay out record offsets.
	pos := int64(8)
	pos += cdrSize
	gdrOff := pos
	pos += gdrSize

	zvdrOff := make([]int64, len(vars))
	vxrOff := make([]int64, len(vars))
	vvrOff := make([]int64, len(vars))
	for i, v := range vars {
		zvdrOff[i] = pos
		pos += zvdrSize(v)
		vxrOff[i] = pos
		pos += vxrSize
		vvrOff[i] = pos
		pos += 12 + int64(len(v.data))
	}
	eof := pos

	var buf bytes.Buffer
	w32 := func(v int32) { _ = binary.Write(&buf, binary.BigEndian, v) }
	w64 := func(v int64) { _ = binary.Write(&buf, binary.BigEndian, v) }
	wu32 := func(v uint32) { _ = binary.Write(&buf, binary.BigEndian, v) }

	// Magic numbers.
	wu32(0xCDF30001)
	wu32(0x0000FFFF)

	// CDR.
	w64(cdrSize)
	w32(recCDR)
	w64(gdrOff)
	w32(3) // version
	w32(8) // release
	w32(encoding)
	w32(2) // flags: single-file
	for range 5 {
		w32(0)
	}
	buf.Write(make([]byte, 256)) // copyright

	// GDR.
	w64(gdrSize)
	w32(recGDR)
	w64(0) // rVDRhead
	if len(vars) > 0 {
		w64(zvdrOff[0])
	} else {
		w64(0)
	}
	w64(0) // ADRhead
	w64(eof)
	w32(0) // NrVars
	w32(0) // NumAttr
	w32(-1)
	w32(0)
	w32(int32(len(vars)))
	w64(0) // UIRhead
	w32(0)
	w32(0)
	w32(0)

	for i, v := range vars {
		// zVDR.
		w64(zvdrSize(v))
		w32(reczVDR)
		if i+1 < len(vars) {
			w64(zvdrOff[i+1])
		} else {
			w64(0)
		}
		w32(v.dataType)
		w32(v.records - 1) // MaxRec
		w64(vxrOff[i])
		w64(vxrOff[i])
		flags := int32(0)
		if v.recVary {
			flags = 1
		}
		w32(flags)
		w32(0) // SRecords
		w32(0)
		w32(0)
		w32(-1)
		w32(v.numElems)
		w32(int32(i)) // Num
		w64(0)        // CPRorSPRoffset
		w32(0)        // BlockingFactor
		name := make([]byte, 256)
		copy(name, v.name)
		buf.Write(name)
		w32(int32(len(v.dims)))
		for _, d := range v.dims {
			w32(d)
		}
		for _, dv := range v.varys {
			w32(dv)
		}

		// VXR with a single used entry.
		w64(vxrSize)
		w32(recVXR)
		w64(0) // VXRnext
		w32(1) // Nentries
		w32(1) // NusedEntries
		w32(0) // First
		w32(v.records - 1)
		w64(vvrOff[i])

		// VVR.
		w64(12 + int64(len(v.data)))
		w32(recVVR)
		buf.Write(v.data)
	}
	return buf.Bytes()
}

// encodeFloats packs float32 values in the given byte order.
func encodeFloats(order binary.ByteOrder, values []float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		order.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// encodeDoubles packs float64 values in the given byte order.
func encodeDoubles(order binary.ByteOrder, values []float64) []byte {
	out := make([]byte, 8*len(values))
	for i, v := range values {
		order.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}

// encodeInts packs int64 values in the given byte order.
func encodeInts(order binary.ByteOrder, values []int64) []byte {
	out := make([]byte, 8*len(values))
	for i, v := range values {
		order.PutUint64(out[i*8:], uint64(v))
	}
	return out
}

// encodeStrings packs fixed-width character values, space padded.
func encodeStrings(width int, values []string) []byte {
	out := make([]byte, 0, width*len(values))
	for _, v := range values {
		field := make([]byte, width)
		for i := range field {
			field[i] = ' '
		}
		copy(field, v)
		out = append(out, field...)
	}
	return out
}
