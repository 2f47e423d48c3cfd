// Package cli implements the interactive console client for the vault.
package cli
