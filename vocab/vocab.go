// Package vocab builds the word vocabulary of a corpus: a frozen, bidirectional
// token/id mapping with four reserved control tokens.
//
// Ids 0-3 always belong to the control tokens. Corpus tokens get ids from 4
// upwards in descending order of frequency; equal counts keep the order in
// which the tokens were first seen.
package vocab

import (
	"fmt"
	"sort"

	"github.com/Noofbiz/seqgan/corpus"
	"k8s.io/klog/v2"
)

// Control token ids.
const (
	PadID = 0
	BOSID = 1
	EOSID = 2
	UnkID = 3

	// NumReserved is the number of control tokens preceding corpus tokens.
	NumReserved = 4
)

// Control token strings.
const (
	PadToken = "<PAD>"
	BOSToken = "<S>"
	EOSToken = "</S>"
	UnkToken = "<UNK>"
)

// Vocabulary owns both directions of the token/id mapping. It is immutable
// after construction and safe for concurrent reads.
type Vocabulary struct {
	word2id map[string]int
	id2word []string

	// sentences the mapping was built from; empty when loaded from disk.
	sentences [][]string
	minCount  int
}

// New loads the corpus at path and builds its vocabulary. Tokens seen fewer
// than minCount times are left out and encode to UnkID. A minCount below 1 is
// treated as 1.
func New(path string, minCount int) (*Vocabulary, error) {
	sentences, err := corpus.LoadSentences(path)
	if err != nil {
		return nil, fmt.Errorf("build vocabulary: %w", err)
	}
	v := NewFromSentences(sentences, minCount)
	klog.V(1).Infof("vocabulary: %d tokens from %d sentences of %s", v.Size(), len(sentences), path)
	return v, nil
}

// NewFromSentences builds a vocabulary from already tokenized sentences. An
// empty corpus yields a vocabulary holding only the control tokens.
func NewFromSentences(sentences [][]string, minCount int) *Vocabulary {
	if minCount < 1 {
		minCount = 1
	}
	v := &Vocabulary{
		word2id:   make(map[string]int),
		id2word:   []string{PadToken, BOSToken, EOSToken, UnkToken},
		sentences: sentences,
		minCount:  minCount,
	}
	for id, tok := range v.id2word {
		v.word2id[tok] = id
	}

	counts := make(map[string]int)
	var order []string
	for _, sentence := range sentences {
		for _, tok := range sentence {
			if _, seen := counts[tok]; !seen {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	for _, tok := range order {
		if counts[tok] < minCount {
			break
		}
		// a corpus token spelled like a control token keeps the control id
		if _, ok := v.word2id[tok]; ok {
			continue
		}
		v.word2id[tok] = len(v.id2word)
		v.id2word = append(v.id2word, tok)
	}
	return v
}

// fromTokens rebuilds a vocabulary from its id-ordered token list.
func fromTokens(tokens []string, minCount int) (*Vocabulary, error) {
	reserved := []string{PadToken, BOSToken, EOSToken, UnkToken}
	if len(tokens) < NumReserved {
		return nil, fmt.Errorf("vocabulary has %d tokens, need at least %d", len(tokens), NumReserved)
	}
	for id, tok := range reserved {
		if tokens[id] != tok {
			return nil, fmt.Errorf("token %d is %q, want control token %q", id, tokens[id], tok)
		}
	}
	v := &Vocabulary{
		word2id:  make(map[string]int, len(tokens)),
		id2word:  append([]string(nil), tokens...),
		minCount: minCount,
	}
	for id, tok := range v.id2word {
		if prev, dup := v.word2id[tok]; dup {
			return nil, fmt.Errorf("token %q has ids %d and %d", tok, prev, id)
		}
		v.word2id[tok] = id
	}
	return v, nil
}

// Size is the number of distinct tokens, control tokens included.
func (v *Vocabulary) Size() int {
	return len(v.id2word)
}

// MinCount is the frequency threshold the vocabulary was built with.
func (v *Vocabulary) MinCount() int {
	return v.minCount
}

// Lookup returns the id of tok and whether it is in the vocabulary.
func (v *Vocabulary) Lookup(tok string) (int, bool) {
	id, ok := v.word2id[tok]
	return id, ok
}

// ID returns the id of tok, or UnkID.
func (v *Vocabulary) ID(tok string) int {
	if id, ok := v.word2id[tok]; ok {
		return id
	}
	return UnkID
}

// Token returns the token of id, or UnkToken when id is not assigned.
func (v *Vocabulary) Token(id int) string {
	if id < 0 || id >= len(v.id2word) {
		return UnkToken
	}
	return v.id2word[id]
}

// Tokens returns a copy of all tokens in id order.
func (v *Vocabulary) Tokens() []string {
	return append([]string(nil), v.id2word...)
}

// Encode maps every token of sentence to its id. The result always has the
// same length as the input.
func (v *Vocabulary) Encode(sentence []string) []int {
	ids := make([]int, len(sentence))
	for i, tok := range sentence {
		ids[i] = v.ID(tok)
	}
	return ids
}

// Decode maps ids back to tokens.
func (v *Vocabulary) Decode(ids []int) []string {
	toks := make([]string, len(ids))
	for i, id := range ids {
		toks[i] = v.Token(id)
	}
	return toks
}

// SentenceCount is the number of sentences the vocabulary was built from.
func (v *Vocabulary) SentenceCount() int {
	return len(v.sentences)
}

// Sentence returns a copy of the i-th sentence the vocabulary was built from.
func (v *Vocabulary) Sentence(i int) ([]string, error) {
	if i < 0 || i >= len(v.sentences) {
		return nil, fmt.Errorf("sentence %d out of range [0, %d)", i, len(v.sentences))
	}
	return append([]string(nil), v.sentences[i]...), nil
}
