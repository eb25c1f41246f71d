// Package config loads the rental ledger's configuration and builds the infrastructure it
// describes: loggers, Postgres connections for the event store engines and OpenTelemetry providers.
//
// Configuration is read from a YAML file and then overridden by RENTALLEDGER_* environment
// variables. Loading a .env file is left to the binary.
package config
