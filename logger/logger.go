// Package logger provides adapters for popular logger libraries to work with ptsim's Logger interface.
//
// The adapters allow you to use your existing logger with ptsim without writing boilerplate.
// Note that the standard library's slog.Logger already implements ptsim.Logger directly.
//
// Example with zap:
//
//	import (
//	    "github.com/alexhholmes/ptsim"
//	    "github.com/alexhholmes/ptsim/logger"
//	    "go.uber.org/zap"
//	)
//
//	func main() {
//	    zapLogger, _ := zap.NewProduction()
//
//	    mmu, err := ptsim.Open(ptsim.WithLogger(logger.NewZap(zapLogger)))
//	    if err != nil {
//	        panic(err)
//	    }
//	    defer mmu.Close()
//	}
package logger
