// Package audio finds pronunciation recordings for English words.
//
// A dictionary page is scraped first. The static recordings hosted by
// Google and vocabulary.com are always queued behind it, and candidates are
// downloaded in order until one answers with a recording. When configured, a
// speech synthesizer produces the recording as a last resort.
package audio
