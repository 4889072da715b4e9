// Package processor turns a selected English word into an Anki note. It
// runs the translation and the audio download side by side, masks the
// words for the cloze fields and submits the note through a Gateway. This
// package serves as the main coordinator between all other components.
package processor
