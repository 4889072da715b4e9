// Package server exposes the card pipeline over HTTP on the loopback
// interface, for a browser extension or any other local front end.
package server
