package session

import "math/rand/v2"

// ShuffleQuestions permutes the question sequence in place, uniformly
// at random. The permutation happens once per session at load; the
// shuffled order itself is what gets persisted, so the sequence stays
// fixed across reloads.
func ShuffleQuestions(qs []Question) {
	rand.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
}

// shuffleQuestionsWith is the seedable variant used by tests.
func shuffleQuestionsWith(r *rand.Rand, qs []Question) {
	r.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
}
