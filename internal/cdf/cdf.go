// Package cdf reads uncompressed CDF version 3 files: the container format
// the archive distributes daily science files in. Only the subset the daily
// files use is supported: zVariables with single-block uncompressed records.
package cdf

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/solartools/epdload/schema"
)

// Record type identifiers within a CDF file.
const (
	recCDR  = 1
	recGDR  = 2
	recVXR  = 6
	recVVR  = 7
	reczVDR = 8
)

// CDF data type identifiers.
const (
	typeInt1   = 1
	typeInt2   = 2
	typeInt4   = 4
	typeInt8   = 8
	typeUint1  = 11
	typeUint2  = 12
	typeUint4  = 14
	typeReal4  = 21
	typeReal8  = 22
	typeEpoch  = 31
	typeTT2000 = 33
	typeFloat  = 44
	typeDouble = 45
	typeChar   = 51
	typeUchar  = 52
)

// typeSizes maps a data type to its per-value byte size.
var typeSizes = map[int32]int{
	typeInt1: 1, typeUint1: 1, typeChar: 1, typeUchar: 1,
	typeInt2: 2, typeUint2: 2,
	typeInt4: 4, typeUint4: 4, typeReal4: 4, typeFloat: 4,
	typeInt8: 8, typeReal8: 8, typeEpoch: 8, typeTT2000: 8, typeDouble: 8,
}

// littleEncodings lists the CDF host encodings that store data values
// little-endian. Control fields are big-endian regardless of encoding.
var littleEncodings = map[int32]bool{
	3: true, 4: true, 6: true, 13: true, 14: true, 15: true, 16: true, 17: true,
}

// Decoder reads daily archive files from disk.
type Decoder struct{}

// NewDecoder builds a file decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode reads the file at path into named variable arrays. Any structural
// problem, including a missing file, surfaces as a schema.DecodeError so the
// caller can degrade the day to a gap.
func (d *Decoder) Decode(path string) (*schema.DayFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &schema.DecodeError{Path: path, Err: err}
	}
	vars, err := parse(data)
	if err != nil {
		return nil, &schema.DecodeError{Path: path, Err: err}
	}
	return &schema.DayFile{Path: path, Vars: vars}, nil
}

// reader provides bounds-checked big-endian access to the raw file. CDF
// control fields are network order independent of the data encoding.
type reader struct {
	data []byte
}

func (r *reader) i32(off int64) (int32, error) {
	if off < 0 || off+4 > int64(len(r.data)) {
		return 0, fmt.Errorf("truncated file: read at %d past %d bytes", off, len(r.data))
	}
	return int32(binary.BigEndian.Uint32(r.data[off:])), nil
}

func (r *reader) i64(off int64) (int64, error) {
	if off < 0 || off+8 > int64(len(r.data)) {
		return 0, fmt.Errorf("truncated file: read at %d past %d bytes", off, len(r.data))
	}
	return int64(binary.BigEndian.Uint64(r.data[off:])), nil
}

func (r *reader) bytes(off, n int64) ([]byte, error) {
	if off < 0 || n < 0 || off+n > int64(len(r.data)) {
		return nil, fmt.Errorf("truncated file: read %d bytes at %d past %d bytes", n, off, len(r.data))
	}
	return r.data[off : off+n], nil
}

// recordHeader reads the size and type of the record at off and checks the
// type against want.
func (r *reader) recordHeader(off int64, want int32) (int64, error) {
	size, err := r.i64(off)
	if err != nil {
		return 0, err
	}
	recType, err := r.i32(off + 8)
	if err != nil {
		return 0, err
	}
	if recType != want {
		return 0, fmt.Errorf("record at %d has type %d, expected %d", off, recType, want)
	}
	return size, nil
}

// parse walks the record structure of one file and extracts every zVariable.
func parse(data []byte) (map[string]*schema.Array, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("file too short for magic numbers")
	}
	if binary.BigEndian.Uint32(data[0:4]) != 0xCDF30001 {
		return nil, fmt.Errorf("not a CDF version 3 file")
	}
	switch binary.BigEndian.Uint32(data[4:8]) {
	case 0x0000FFFF:
	case 0xCCCC0001:
		return nil, fmt.Errorf("whole-file compression is not supported")
	default:
		return nil, fmt.Errorf("unrecognized second magic number")
	}

	r := &reader{data: data}

	// CDR sits directly after the magic numbers.
	const cdrOffset = 8
	if _, err := r.recordHeader(cdrOffset, recCDR); err != nil {
		return nil, err
	}
	gdrOffset, err := r.i64(cdrOffset + 12)
	if err != nil {
		return nil, err
	}
	encoding, err := r.i32(cdrOffset + 28)
	if err != nil {
		return nil, err
	}
	order := binary.ByteOrder(binary.BigEndian)
	if littleEncodings[encoding] {
		order = binary.LittleEndian
	}

	if _, err := r.recordHeader(gdrOffset, recGDR); err != nil {
		return nil, err
	}
	zVDRHead, err := r.i64(gdrOffset + 20)
	if err != nil {
		return nil, err
	}
	numZVars, err := r.i32(gdrOffset + 60)
	if err != nil {
		return nil, err
	}

	vars := make(map[string]*schema.Array, numZVars)
	offset := zVDRHead
	for range numZVars {
		if offset == 0 {
			break
		}
		arr, next, err := parseVariable(r, offset, order)
		if err != nil {
			return nil, err
		}
		vars[arr.Name] = arr
		offset = next
	}
	return vars, nil
}

// parseVariable reads one zVDR and the data records behind it. It returns
// the decoded array and the offset of the next zVDR in the chain.
func parseVariable(r *reader, off int64, order binary.ByteOrder) (*schema.Array, int64, error) {
	if _, err := r.recordHeader(off, reczVDR); err != nil {
		return nil, 0, err
	}
	next, err := r.i64(off + 12)
	if err != nil {
		return nil, 0, err
	}
	dataType, err := r.i32(off + 20)
	if err != nil {
		return nil, 0, err
	}
	maxRec, err := r.i32(off + 24)
	if err != nil {
		return nil, 0, err
	}
	vxrHead, err := r.i64(off + 28)
	if err != nil {
		return nil, 0, err
	}
	flags, err := r.i32(off + 44)
	if err != nil {
		return nil, 0, err
	}
	numElems, err := r.i32(off + 64)
	if err != nil {
		return nil, 0, err
	}
	nameBytes, err := r.bytes(off+84, 256)
	if err != nil {
		return nil, 0, err
	}
	name := strings.TrimRight(string(nameBytes), "\x00")

	numDims, err := r.i32(off + 340)
	if err != nil {
		return nil, 0, err
	}
	valuesPerRecord := 1
	for i := range numDims {
		size, err := r.i32(off + 344 + int64(i)*4)
		if err != nil {
			return nil, 0, err
		}
		varies, err := r.i32(off + 344 + int64(numDims)*4 + int64(i)*4)
		if err != nil {
			return nil, 0, err
		}
		if varies != 0 {
			valuesPerRecord *= int(size)
		}
	}

	size, ok := typeSizes[dataType]
	if !ok {
		return nil, 0, fmt.Errorf("variable %s has unsupported data type %d", name, dataType)
	}
	isChar := dataType == typeChar || dataType == typeUchar
	valueBytes := size
	if isChar {
		// Character values are fixed-length strings of numElems bytes.
		valueBytes = size * int(numElems)
	}

	records := int(maxRec) + 1
	if flags&1 == 0 {
		// No record variance: a single record serves every record number.
		records = 1
	}
	if records <= 0 {
		records = 0
	}

	raw, err := readRecords(r, vxrHead, records*valuesPerRecord*valueBytes, name)
	if err != nil {
		return nil, 0, err
	}

	arr := &schema.Array{Name: name, Width: valuesPerRecord}
	if err := decodeValues(arr, raw, dataType, int(numElems), order); err != nil {
		return nil, 0, err
	}
	return arr, next, nil
}

// readRecords walks the VXR chain of a variable and concatenates the raw
// bytes of its VVRs, up to want bytes.
func readRecords(r *reader, vxrOffset int64, want int, name string) ([]byte, error) {
	raw := make([]byte, 0, want)
	for vxrOffset != 0 && len(raw) < want {
		if _, err := r.recordHeader(vxrOffset, recVXR); err != nil {
			return nil, err
		}
		next, err := r.i64(vxrOffset + 12)
		if err != nil {
			return nil, err
		}
		entries, err := r.i32(vxrOffset + 20)
		if err != nil {
			return nil, err
		}
		used, err := r.i32(vxrOffset + 24)
		if err != nil {
			return nil, err
		}
		for i := range used {
			vvrOffset, err := r.i64(vxrOffset + 28 + int64(entries)*8 + int64(i)*8)
			if err != nil {
				return nil, err
			}
			vvrSize, err := r.recordHeader(vvrOffset, recVVR)
			if err != nil {
				return nil, err
			}
			chunk, err := r.bytes(vvrOffset+12, vvrSize-12)
			if err != nil {
				return nil, err
			}
			raw = append(raw, chunk...)
		}
		vxrOffset = next
	}
	if len(raw) < want {
		return nil, fmt.Errorf("variable %s has %d data bytes, expected %d", name, len(raw), want)
	}
	return raw[:want], nil
}

// decodeValues converts raw record bytes into the array's typed slice.
// Epochs keep their full nanosecond precision as integers; all other numeric
// types widen to float64.
func decodeValues(arr *schema.Array, raw []byte, dataType int32, numElems int, order binary.ByteOrder) error {
	switch dataType {
	case typeChar, typeUchar:
		if numElems <= 0 {
			return fmt.Errorf("variable %s has non-positive element count", arr.Name)
		}
		count := len(raw) / numElems
		arr.Strings = make([]string, count)
		for i := range count {
			arr.Strings[i] = strings.TrimRight(string(raw[i*numElems:(i+1)*numElems]), " \x00")
		}
	case typeTT2000, typeInt8:
		count := len(raw) / 8
		arr.Ints = make([]int64, count)
		for i := range count {
			arr.Ints[i] = int64(order.Uint64(raw[i*8:]))
		}
	default:
		size := typeSizes[dataType]
		count := len(raw) / size
		arr.Floats = make([]float64, count)
		for i := range count {
			chunk := raw[i*size:]
			switch dataType {
			case typeInt1:
				arr.Floats[i] = float64(int8(chunk[0]))
			case typeUint1:
				arr.Floats[i] = float64(chunk[0])
			case typeInt2:
				arr.Floats[i] = float64(int16(order.Uint16(chunk)))
			case typeUint2:
				arr.Floats[i] = float64(order.Uint16(chunk))
			case typeInt4:
				arr.Floats[i] = float64(int32(order.Uint32(chunk)))
			case typeUint4:
				arr.Floats[i] = float64(order.Uint32(chunk))
			case typeReal4, typeFloat:
				arr.Floats[i] = float64(math.Float32frombits(order.Uint32(chunk)))
			case typeReal8, typeDouble, typeEpoch:
				arr.Floats[i] = math.Float64frombits(order.Uint64(chunk))
			default:
				return fmt.Errorf("variable %s has unsupported data type %d", arr.Name, dataType)
			}
		}
	}
	return nil
}
