// Package ui implements an interactive chat terminal interface using
// bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [ChatView] : Type a message and review the conversation transcript
//  2. [CuratingView] : Monitor real-time pipeline progress for the turn
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. Progress updates flow through a channel from the CurationEngine,
// providing non-blocking status reporting while a turn runs.
//
// Turns submitted through the TUI carry implicit consent: launching the chat
// interface is the consent action, and each turn is sent with the flag set.
package ui
