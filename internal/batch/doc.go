// Package batch reads word lists for batch card creation.
package batch
