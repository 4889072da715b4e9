// Package cloze builds the fill-in-the-blank fronts of vocabulary cards by
// hiding the middle of every word while keeping a proportional prefix and
// suffix visible.
package cloze
