package embedding

import "math"

// Embed maps text onto a deterministic dims-length vector by feature
// hashing its normalized tokens: each token increments the slot selected
// by a rolling 31-multiplier hash, and the histogram is L2-normalized.
// Hash collisions are accepted as approximation noise. A text with no
// tokens yields the all-zero vector.
func Embed(text string, dims int) []float32 {
	if dims <= 0 {
		return nil
	}

	vec := make([]float32, dims)
	tokens := Normalize(text)
	if len(tokens) == 0 {
		return vec
	}

	for _, tok := range tokens {
		vec[int(tokenHash(tok)%uint32(dims))]++
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum > 0 {
		inv := float32(1 / math.Sqrt(sum))
		for i := range vec {
			vec[i] *= inv
		}
	}

	return vec
}

// tokenHash accumulates hash = hash*31 + charCode over the token's
// characters in unsigned 32-bit arithmetic.
func tokenHash(token string) uint32 {
	var h uint32
	for _, r := range token {
		h = h*31 + uint32(r)
	}
	return h
}
