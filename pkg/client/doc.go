// Package client provides a Go client for the Alan API: streamed chat
// conversations and the workflow generation service
package client
