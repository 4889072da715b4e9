// Package cli provides command-line interface setup and configuration
// for the ankivn application. It handles flag parsing, command creation,
// logging and the wiring of the card pipeline from configuration, using
// cobra, viper and logrus.
package cli
