// Package translation asks a generative language model for the Vietnamese
// meaning of an English word together with card metadata: an example
// sentence and its translation, IPA, word class and syllable split.
//
// Every lookup degrades to empty fields instead of failing. Model replies
// are decoded in two steps: the outermost JSON object is cut out of the
// free text first, then decoded into the expected shape.
package translation
