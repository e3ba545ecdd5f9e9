// Package api defines the shared data types of the workflow assistant
//
// This package contains chat messages, intents, workflow blueprints and
// their node/edge projection, the closed set of assistant tool invocations,
// and the HTTP request and response messages exchanged with clients
package api
