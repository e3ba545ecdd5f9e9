// Package stream implements the line-oriented chat stream protocol
//
// A stream is a sequence of frames, one per line. Text deltas are written as
// `0:"<text>"`, tool invocations as `2:{"toolCalls":[...]}` and the stream
// ends with exactly one `d:{"finishReason":"stop"}` completion frame. The
// Writer emits each frame atomically and refuses further frames once the
// sink fails or the stream is complete
package stream
