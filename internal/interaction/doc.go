// Package interaction is how the card pipeline talks to the person using it:
// transient and persistent notices plus a prompt for a custom meaning. The
// pipeline never depends on how these are rendered.
package interaction
