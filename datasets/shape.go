package datasets

import "github.com/Noofbiz/seqgan/vocab"

// ShapeGeneratorInput returns [BOS, ids..., EOS] cut or PAD-filled to length t.
// For t >= 1 the row always starts with BOS.
func ShapeGeneratorInput(ids []int32, t int) []int32 {
	seq := make([]int32, 0, len(ids)+2)
	seq = append(seq, vocab.BOSID)
	seq = append(seq, ids...)
	seq = append(seq, vocab.EOSID)
	return fit(seq, t)
}

// ShapeGeneratorTarget returns [ids..., EOS] cut or PAD-filled to length t.
func ShapeGeneratorTarget(ids []int32, t int) []int32 {
	return withEOS(ids, t)
}

// ShapeDiscriminator returns [ids..., EOS] cut or PAD-filled to length t.
func ShapeDiscriminator(ids []int32, t int) []int32 {
	return withEOS(ids, t)
}

func withEOS(ids []int32, t int) []int32 {
	seq := make([]int32, 0, len(ids)+1)
	seq = append(seq, ids...)
	seq = append(seq, vocab.EOSID)
	return fit(seq, t)
}

// fit keeps the first t elements of seq and right-pads with PadID up to t.
// t <= 0 yields an empty row.
func fit(seq []int32, t int) []int32 {
	if t <= 0 {
		return []int32{}
	}
	out := make([]int32, t)
	n := copy(out, seq)
	for i := n; i < t; i++ {
		out[i] = vocab.PadID
	}
	return out
}
