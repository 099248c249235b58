package tree

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/pbanos/sapling/split"
)

const (
	binaryMagic   = "SAPT"
	binaryVersion = uint16(1)
)

/*
MarshalBinary encodes the tree records and unseen level policy. The encoding
is little endian:

	magic "SAPT", version uint16, policy uint8, record count uint32

followed by one record each:

	kind uint8, class uint8, split kind uint8, column uint32,
	threshold float64 bits uint64, left uint32, right uint32,
	counts 2 x uint64, left levels, right levels

where level sets are a uint32 word count followed by uint64 words. Empty
trailing words are not written, so equal trees give equal bytes. Features
and label are not part of the encoding.
*/
func (t *Tree) MarshalBinary() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(binaryMagic)
	w := func(v interface{}) {
		binary.Write(buf, binary.LittleEndian, v)
	}
	w(binaryVersion)
	w(uint8(t.Unseen))
	w(uint32(len(t.Records)))
	for _, r := range t.Records {
		w(uint8(r.Kind))
		w(uint8(r.Class))
		w(uint8(r.SplitKind))
		w(uint32(r.Column))
		w(math.Float64bits(r.Threshold))
		w(uint32(r.Left))
		w(uint32(r.Right))
		w(uint64(r.Counts[0]))
		w(uint64(r.Counts[1]))
		for _, ls := range []split.LevelSet{r.LeftLevels, r.RightLevels} {
			ls = trim(ls)
			w(uint32(len(ls)))
			w([]uint64(ls))
		}
	}
	return buf.Bytes(), nil
}

/*
UnmarshalBinary decodes records and unseen level policy encoded with
MarshalBinary into the tree, validating the result.
*/
func (t *Tree) UnmarshalBinary(data []byte) error {
	buf := bytes.NewReader(data)
	magic := make([]byte, len(binaryMagic))
	if _, err := io.ReadFull(buf, magic); err != nil || string(magic) != binaryMagic {
		return fmt.Errorf("decoding tree: not a compressed tree")
	}
	var err error
	r := func(v interface{}) {
		if err == nil {
			err = binary.Read(buf, binary.LittleEndian, v)
		}
	}
	var (
		version uint16
		policy  uint8
		count   uint32
	)
	r(&version)
	if err == nil && version != binaryVersion {
		return fmt.Errorf("decoding tree: unsupported version %d", version)
	}
	r(&policy)
	r(&count)
	if err != nil {
		return fmt.Errorf("decoding tree header: %v", err)
	}
	// each record takes at least 47 bytes
	if int64(count)*47 > int64(buf.Len()) {
		return fmt.Errorf("decoding tree: %d records do not fit in %d bytes", count, buf.Len())
	}
	records := make([]Record, count)
	for i := range records {
		var (
			kind, class, splitKind uint8
			column, left, right    uint32
			threshold, neg, pos    uint64
		)
		r(&kind)
		r(&class)
		r(&splitKind)
		r(&column)
		r(&threshold)
		r(&left)
		r(&right)
		r(&neg)
		r(&pos)
		var sets [2]split.LevelSet
		for j := range sets {
			var words uint32
			r(&words)
			if err != nil {
				break
			}
			if int64(words)*8 > int64(buf.Len()) {
				return fmt.Errorf("decoding record %d: level set of %d words exceeds data", i, words)
			}
			if words > 0 {
				sets[j] = make(split.LevelSet, words)
				r([]uint64(sets[j]))
			}
		}
		if err != nil {
			return fmt.Errorf("decoding record %d: %v", i, err)
		}
		records[i] = Record{
			Kind:        RecordKind(kind),
			Column:      int(column),
			SplitKind:   split.Kind(splitKind),
			Threshold:   math.Float64frombits(threshold),
			LeftLevels:  sets[0],
			RightLevels: sets[1],
			Left:        int(left),
			Right:       int(right),
			Class:       int(class),
			Counts:      [2]int{int(neg), int(pos)},
		}
	}
	if buf.Len() > 0 {
		return fmt.Errorf("decoding tree: %d trailing bytes", buf.Len())
	}
	decoded := &Tree{Records: records, Features: t.Features, Label: t.Label, Unseen: UnseenLevelPolicy(policy)}
	if err = decoded.Validate(); err != nil {
		return fmt.Errorf("decoding tree: %v", err)
	}
	*t = *decoded
	return nil
}

func trim(ls split.LevelSet) split.LevelSet {
	for len(ls) > 0 && ls[len(ls)-1] == 0 {
		ls = ls[:len(ls)-1]
	}
	return ls
}
