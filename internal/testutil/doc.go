// Package testutil provides fakes of the services ankivn talks to: an
// AnkiConnect endpoint, a scripted language model and a recording host.
package testutil
