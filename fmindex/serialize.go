package fmindex

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"lukechampine.com/blake3"

	"github.com/bebop/fmindex/waveletmatrix"
)

// checksumSize is the length, in bytes, of the BLAKE3-256 digest
// appended to every serialized index.
const checksumSize = 32

// Serialize encodes the index as a self-contained byte sequence that
// Deserialize can read back with bit-identical query results. The
// payload is closed with a BLAKE3-256 checksum so Deserialize can detect
// corruption without attempting to interpret malformed data, mirroring
// the CheckSum field the surrounding ecosystem already uses to guard its
// other file formats.
func (f *FMIndex) Serialize() ([]byte, error) {
	payload := new(bytes.Buffer)
	if err := binary.Write(payload, binary.LittleEndian, f.rate); err != nil {
		return nil, err
	}
	if err := binary.Write(payload, binary.LittleEndian, int64(f.div)); err != nil {
		return nil, err
	}
	if err := binary.Write(payload, binary.LittleEndian, int64(len(f.sampledSA))); err != nil {
		return nil, err
	}
	for _, v := range f.sampledSA {
		if err := binary.Write(payload, binary.LittleEndian, int64(v)); err != nil {
			return nil, err
		}
	}
	wmBlob, err := f.wm.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if err := binary.Write(payload, binary.LittleEndian, int64(len(wmBlob))); err != nil {
		return nil, err
	}
	payload.Write(wmBlob)

	sum := blake3.Sum256(payload.Bytes())
	out := payload.Bytes()
	out = append(out, sum[:]...)
	return out, nil
}

// Deserialize decodes an index previously produced by Serialize. It
// returns a CorruptIndexError if the checksum doesn't match the payload,
// or if any recorded length doesn't match the data actually present.
func Deserialize(data []byte) (*FMIndex, error) {
	if len(data) < checksumSize {
		return nil, &CorruptIndexError{Reason: "data shorter than checksum size"}
	}
	payload := data[:len(data)-checksumSize]
	wantSum := data[len(data)-checksumSize:]
	gotSum := blake3.Sum256(payload)
	if !bytes.Equal(gotSum[:], wantSum) {
		return nil, &CorruptIndexError{Reason: "checksum mismatch"}
	}

	r := bytes.NewReader(payload)

	var rate float64
	if err := binary.Read(r, binary.LittleEndian, &rate); err != nil {
		return nil, &CorruptIndexError{Reason: fmt.Sprintf("reading rate: %v", err)}
	}

	var div64 int64
	if err := binary.Read(r, binary.LittleEndian, &div64); err != nil {
		return nil, &CorruptIndexError{Reason: fmt.Sprintf("reading div: %v", err)}
	}
	if div64 <= 0 {
		return nil, &CorruptIndexError{Reason: "non-positive sampling stride"}
	}

	var sampledLen int64
	if err := binary.Read(r, binary.LittleEndian, &sampledLen); err != nil {
		return nil, &CorruptIndexError{Reason: fmt.Sprintf("reading sampled SA length: %v", err)}
	}
	if sampledLen < 0 {
		return nil, &CorruptIndexError{Reason: "negative sampled SA length"}
	}
	sampledSA := make([]int, sampledLen)
	for i := range sampledSA {
		var v int64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, &CorruptIndexError{Reason: fmt.Sprintf("reading sampled SA entry %d: %v", i, err)}
		}
		sampledSA[i] = int(v)
	}

	var wmLen int64
	if err := binary.Read(r, binary.LittleEndian, &wmLen); err != nil {
		return nil, &CorruptIndexError{Reason: fmt.Sprintf("reading wavelet matrix length: %v", err)}
	}
	if wmLen < 0 || int64(r.Len()) != wmLen {
		return nil, &CorruptIndexError{Reason: "wavelet matrix length does not match remaining data"}
	}
	wmBlob := make([]byte, wmLen)
	if _, err := r.Read(wmBlob); err != nil {
		return nil, &CorruptIndexError{Reason: fmt.Sprintf("reading wavelet matrix blob: %v", err)}
	}

	wm := new(waveletmatrix.WaveletMatrix)
	if err := wm.UnmarshalBinary(wmBlob); err != nil {
		return nil, &CorruptIndexError{Reason: fmt.Sprintf("wavelet matrix: %v", err)}
	}

	if len(sampledSA) == 0 {
		return nil, &CorruptIndexError{Reason: "sampled SA is empty"}
	}

	return &FMIndex{
		wm:        wm,
		sampledSA: sampledSA,
		rate:      rate,
		div:       int(div64),
	}, nil
}
