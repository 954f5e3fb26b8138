package model

// Package model defines domain data structures used across the bot: download
// tasks, download results, extractor format descriptions, and status enums.
// Structures are designed for explicit state transitions and safe hand-off
// between the orchestrator, the delivery dispatcher, and the file lifecycle
// manager.
