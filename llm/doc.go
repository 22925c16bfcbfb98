// Package llm defines the generation backend contract used by the
// summarizer and a registry of backends, in the style of database/sql
// drivers.
//
// # Usage
//
// Import a backend package for side-effect registration, then build a
// generator from config:
//
//	import (
//	    "github.com/kbukum/medsum/llm"
//	    _ "github.com/kbukum/medsum/llm/gemini" // registers "gemini"
//	)
//
//	gen, err := llm.New(ctx, llm.Config{Backend: "gemini", APIKey: key})
//	text, err := gen.Generate(ctx, llm.Request{
//	    SystemInstruction: "...",
//	    Parts:             []llm.Part{llm.TextPart("transcript")},
//	    Schema:            schema,
//	})
//
// Backends report an overloaded service as a SERVICE_OVERLOADED AppError
// and every other failure as TRANSPORT_FAILURE.
package llm
