// Package dnd models drag gestures on a board: what is being dragged, where
// it came from, what it is hovering over, and how a drop resolves into a
// list mutation. It holds no list state; the board package applies the
// resolved Plan to the mounted lists.
package dnd
