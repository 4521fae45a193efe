// Package app contains the core application logic. It loads formula files,
// wires feeds into a hub, compiles every formula once and evaluates them,
// decoupled from any specific entrypoint like a CLI or server.
package app
