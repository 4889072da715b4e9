// Package anki delivers vocabulary notes to Anki.
//
// Client speaks the AnkiConnect JSON protocol to a running Anki instance and
// creates the deck and note type on first use. PackageWriter offers the same
// operations offline and writes an .apkg file that Anki can import later.
package anki
