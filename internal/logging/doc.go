// Package logging provides structured logging helpers for the kubectl
// helper library.
//
// It centralizes slog attribute construction so every operation logs the
// same attribute names, and provides sanitizers for values that may leak
// cluster topology or credentials:
//
//	logger.Debug("kubernetes operation",
//	    logging.Operation("get"),
//	    logging.Namespace("default"),
//	    logging.ResourceType("pods"),
//	    logging.ResourceName("my-pod"))
//
// API server hosts have IP addresses redacted before logging, and bearer
// tokens are reduced to a length indicator.
package logging
