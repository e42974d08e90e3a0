// Package logger builds the service's zap logger.
//
// Level is one of debug, info, warn or error; debug switches to zap's
// development config. Format is json (default) or console.
//
//	log, _ := logger.New(logger.Config{Level: "info"})
//	log.Info("server started")
//
// In a handler, WithRequestID tags entries with the request id set by
// httpx.RequestIDMiddleware:
//
//	logger.WithRequestID(log, r).Error("borrow failed", zap.Error(err))
package logger
