// Package config loads runtime configuration from the environment, with an
// optional .env file for local development and an optional deployment info
// file carrying the agent endpoints written out by the deploy tooling. The
// resolved agent endpoints satisfy the client's Endpoints interface.
package config
