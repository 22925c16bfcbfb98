// Package util holds small helpers shared across medsum packages: size
// parsing for body limits, secret masking for logs, and generic value helpers.
package util
